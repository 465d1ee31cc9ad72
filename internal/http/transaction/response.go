package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        ledger.Type     `json:"type"`
	Date        string          `json:"date"`
	AccountID   *uuid.UUID      `json:"account_id,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Title:       tx.Title,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Date:        tx.Date.Format(time.DateOnly),
		AccountID:   tx.AccountID,
		CategoryID:  tx.CategoryID,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type balanceDetailsResponse struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int             `json:"transaction_count"`
	IncomeCount  int             `json:"income_count"`
	ExpenseCount int             `json:"expense_count"`
}

func toBalanceDetailsResponse(d *ledger.BalanceDetails) balanceDetailsResponse {
	return balanceDetailsResponse{
		TotalIncome:  d.TotalIncome,
		TotalExpense: d.TotalExpense,
		Balance:      d.Balance,
		Count:        d.Count,
		IncomeCount:  d.IncomeCount,
		ExpenseCount: d.ExpenseCount,
	}
}

type consistencyResponse struct {
	AccountID         uuid.UUID       `json:"account_id"`
	AccountName       string          `json:"account_name"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	CalculatedIncome  decimal.Decimal `json:"calculated_income"`
	CalculatedExpense decimal.Decimal `json:"calculated_expense"`
	CalculatedNet     decimal.Decimal `json:"calculated_net"`
	TransactionCount  int             `json:"transaction_count"`
	BalanceMatch      string          `json:"balance_match"`
}

func toConsistencyResponse(c *ledger.ConsistencyResult) consistencyResponse {
	return consistencyResponse{
		AccountID:         c.AccountID,
		AccountName:       c.AccountName,
		CurrentBalance:    c.CurrentBalance,
		CalculatedIncome:  c.CalculatedIncome,
		CalculatedExpense: c.CalculatedExpense,
		CalculatedNet:     c.CalculatedNet,
		TransactionCount:  c.TransactionCount,
		BalanceMatch:      c.BalanceMatch,
	}
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func toCategoryTotals(totals []ledger.CategoryTotal) []categoryTotalResponse {
	resp := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryTotalResponse{Category: t.Category, Amount: t.Amount}
	}

	return resp
}

type summaryResponse struct {
	TotalIncome  decimal.Decimal         `json:"total_income"`
	TotalExpense decimal.Decimal         `json:"total_expense"`
	NetAmount    decimal.Decimal         `json:"net_amount"`
	StartDate    string                  `json:"start_date"`
	EndDate      string                  `json:"end_date"`
	IncomeCount  int                     `json:"income_count"`
	ExpenseCount int                     `json:"expense_count"`
	AvgIncome    decimal.Decimal         `json:"avg_income"`
	AvgExpense   decimal.Decimal         `json:"avg_expense"`
	TopIncome    []categoryTotalResponse `json:"top_income_categories"`
	TopExpense   []categoryTotalResponse `json:"top_expense_categories"`
}

func toSummaryResponse(s *ledger.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		NetAmount:    s.NetAmount,
		StartDate:    s.StartDate.Format(time.DateOnly),
		EndDate:      s.EndDate.Format(time.DateOnly),
		IncomeCount:  s.IncomeCount,
		ExpenseCount: s.ExpenseCount,
		AvgIncome:    s.AvgIncome,
		AvgExpense:   s.AvgExpense,
		TopIncome:    toCategoryTotals(s.TopIncome),
		TopExpense:   toCategoryTotals(s.TopExpense),
	}
}

type categorySpendingResponse struct {
	CategoryID   uuid.UUID             `json:"category_id"`
	CategoryName string                `json:"category_name"`
	Total        decimal.Decimal       `json:"total"`
	Count        int                   `json:"count"`
	Average      decimal.Decimal       `json:"average"`
	Transactions []transactionResponse `json:"transactions"`
}

func toCategorySpendingResponse(s *ledger.CategorySpending) categorySpendingResponse {
	return categorySpendingResponse{
		CategoryID:   s.CategoryID,
		CategoryName: s.CategoryName,
		Total:        s.Total,
		Count:        s.Count,
		Average:      s.Average,
		Transactions: toResponseList(s.Transactions),
	}
}
