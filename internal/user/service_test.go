package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"moneyger/internal/apperror"
	"moneyger/internal/user"
)

func TestService_Resolve(t *testing.T) {
	type testCase struct {
		name      string
		email     string
		setupMock func(m *user.MockRepository)
		wantKind  apperror.Kind
		wantErr   bool
	}

	tests := []testCase{
		{
			name:  "Success",
			email: "jane@example.com",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetByEmail(gomock.Any(), "jane@example.com").
					Return(&user.User{ID: uuid.New(), Email: "jane@example.com"}, nil)
			},
		},
		{
			name:  "UnknownEmail",
			email: "ghost@example.com",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetByEmail(gomock.Any(), "ghost@example.com").
					Return(nil, user.ErrNotFound)
			},
			wantKind: apperror.KindNotFound,
			wantErr:  true,
		},
		{
			name:  "RepoError",
			email: "jane@example.com",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					GetByEmail(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo)
			got, err := svc.Resolve(context.Background(), tt.email)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantKind != 0 {
					assert.Equal(t, tt.wantKind, apperror.KindOf(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.email, got.Email)
		})
	}
}
