package models

// BudgetItem is one line of the budget master for a fiscal year.
// Spreadsheet bulk imports update MonthlyBudget keyed by SerialNo.
type BudgetItem struct {
	// ID is the unique identifier for the budget line (UUID format).
	ID string

	// FiscalYear identifies the budget year, e.g. "2025-26".
	FiscalYear string

	// SerialNo is the line's position in the published budget sheet.
	// Unique within a fiscal year.
	SerialNo int

	// ItemName is the budget line description.
	ItemName string

	// Category groups lines for reporting (e.g. "Maintenance", "Security").
	Category string

	// AnnualBudget and MonthlyBudget are the sanctioned amounts.
	AnnualBudget  float64
	MonthlyBudget float64

	// CreatedAt is the Unix timestamp when the line was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}
