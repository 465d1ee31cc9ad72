package analytics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moneyger/internal/analytics"
	"moneyger/internal/auth"
	"moneyger/internal/http/respond"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/trends", h.trends)
	r.Get("/categories", h.categories)
	r.Get("/accounts", h.accounts)
	r.Get("/health", h.health)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(dashboard))
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	months := 6
	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid months", http.StatusBadRequest)
			return
		}

		months = n
	}

	trends, err := h.svc.MonthlyTrends(r.Context(), userID, months)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTrendsResponse(trends))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	period := r.URL.Query().Get("period")

	analysis, err := h.svc.CategoryAnalysis(r.Context(), userID, period)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toCategoryAnalysisResponse(analysis))
}

func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	analysis, err := h.svc.AccountAnalysis(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAccountAnalysisResponse(analysis))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	health, err := h.svc.FinancialHealth(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toHealthResponse(health))
}
