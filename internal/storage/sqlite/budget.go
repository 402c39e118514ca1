package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pbv-society/societyhub/internal/models"
)

// CreateBudgetItem inserts a budget line. The import tool only updates
// existing lines; inserting a fiscal year's lines is a manual step.
func (s *SQLiteStore) CreateBudgetItem(ctx context.Context, item *models.BudgetItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budget_master (id, fiscal_year, serial_no, item_name, category,
			annual_budget, monthly_budget, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.FiscalYear, item.SerialNo, item.ItemName, item.Category,
		item.AnnualBudget, item.MonthlyBudget, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget item: %w", err)
	}
	return nil
}

// UpdateMonthlyBudget sets the monthly budget for one serial in a fiscal year.
func (s *SQLiteStore) UpdateMonthlyBudget(ctx context.Context, fiscalYear string, serialNo int, amount float64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budget_master SET monthly_budget = ?, updated_at = ?
		WHERE fiscal_year = ? AND serial_no = ?`,
		amount, time.Now().Unix(), fiscalYear, serialNo,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update monthly budget: %w", err)
	}
	return res.RowsAffected()
}

// ListBudgetItems returns all lines for a fiscal year ordered by serial number.
func (s *SQLiteStore) ListBudgetItems(ctx context.Context, fiscalYear string) ([]*models.BudgetItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fiscal_year, serial_no, item_name, category,
			annual_budget, monthly_budget, created_at, updated_at
		FROM budget_master
		WHERE fiscal_year = ?
		ORDER BY serial_no`,
		fiscalYear,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget items: %w", err)
	}
	defer rows.Close()

	var items []*models.BudgetItem
	for rows.Next() {
		item := &models.BudgetItem{}
		if err := rows.Scan(&item.ID, &item.FiscalYear, &item.SerialNo, &item.ItemName,
			&item.Category, &item.AnnualBudget, &item.MonthlyBudget,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget items: %w", err)
	}

	return items, nil
}
