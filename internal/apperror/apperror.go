// Package apperror defines the error taxonomy shared by all domain services.
// Every operation either completes fully or fails with exactly one kind;
// transport layers map kinds to their own representation.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindNotFound covers entities that do not exist or are owned by another
	// user. The two are indistinguishable to avoid existence leakage.
	KindNotFound Kind = iota + 1

	// KindValidation covers malformed input independent of other state.
	KindValidation

	// KindBusinessRule covers well-formed input that violates a cross-field
	// or cross-entity policy.
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	}

	return "unknown"
}

// Error is a classified domain error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func BusinessRule(format string, args ...any) error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or 0 if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// IsNotFound reports whether err is classified as NotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
