package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"moneyger/internal/account"
	accountStore "moneyger/internal/account/store"
	"moneyger/internal/analytics"
	"moneyger/internal/auth"
	"moneyger/internal/budget"
	budgetStore "moneyger/internal/budget/store"
	"moneyger/internal/category"
	categoryStore "moneyger/internal/category/store"
	"moneyger/internal/config"
	"moneyger/internal/database"
	"moneyger/internal/goal"
	goalStore "moneyger/internal/goal/store"
	moneygerHttp "moneyger/internal/http"
	accountHandler "moneyger/internal/http/account"
	analyticsHandler "moneyger/internal/http/analytics"
	budgetHandler "moneyger/internal/http/budget"
	categoryHandler "moneyger/internal/http/category"
	goalHandler "moneyger/internal/http/goal"
	transactionHandler "moneyger/internal/http/transaction"
	"moneyger/internal/ledger"
	ledgerStore "moneyger/internal/ledger/store"
	"moneyger/internal/user"
	userStore "moneyger/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		userService     = user.NewService(userStore.New(db))
		accountService  = account.NewService(accountStore.New(db))
		categoryService = category.NewService(categoryStore.New(db))
		ledgerService   = ledger.NewService(ledgerStore.New(db), accountService, categoryService)
		budgetService   = budget.NewService(budgetStore.New(db), ledgerService, categoryService)
		goalService     = goal.NewService(goalStore.New(db), accountService)

		analyticsService = analytics.NewService(
			ledgerService,
			accountService,
			categoryService,
			budgetService,
			goalService,
		)
	)

	var (
		authn        = auth.NewMiddleware(cfg.Auth.JWTSecret, userService)
		accountH     = accountHandler.NewHandler(accountService)
		categoryH    = categoryHandler.NewHandler(categoryService)
		transactionH = transactionHandler.NewHandler(ledgerService)
		budgetH      = budgetHandler.NewHandler(budgetService)
		goalH        = goalHandler.NewHandler(goalService)
		analyticsH   = analyticsHandler.NewHandler(analyticsService)
	)

	router := moneygerHttp.New(authn, accountH, categoryH, transactionH, budgetH, goalH, analyticsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
