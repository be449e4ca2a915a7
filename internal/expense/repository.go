package expense

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles expense and share data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const expenseSelect = `
	SELECT e.id, e.group_id, e.description, e.notes, e.currency, e.amount, e.base_currency,
	       e.base_amount, e.fx_rate_used, e.paid_by, e.occurred_at, e.split_mode,
	       e.created_at, e.updated_at, m.name, m.email, g.name
	FROM expenses e
	JOIN members m ON e.paid_by = m.id
	JOIN groups g ON e.group_id = g.id
`

func scanExpense(row interface{ Scan(...any) error }) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.Description,
		&e.Notes,
		&e.Currency,
		&e.Amount,
		&e.BaseCurrency,
		&e.BaseAmount,
		&e.FXRateUsed,
		&e.PaidBy,
		&e.OccurredAt,
		&e.SplitMode,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.PayerName,
		&e.PayerEmail,
		&e.GroupName,
	)
	return e, err
}

// Create inserts an expense and its shares in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	return r.db.WithTx(ctx, func(q database.Querier) error {
		query := `
			INSERT INTO expenses (id, group_id, description, notes, currency, amount, base_currency,
			                      base_amount, fx_rate_used, paid_by, occurred_at, split_mode,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		if _, err := q.ExecContext(ctx, query,
			e.ID, e.GroupID, e.Description, e.Notes, e.Currency, e.Amount, e.BaseCurrency,
			e.BaseAmount, e.FXRateUsed, e.PaidBy, e.OccurredAt, e.SplitMode,
			e.CreatedAt, e.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		return insertShares(ctx, q, e)
	})
}

// Replace overwrites an expense and swaps its shares in one transaction:
// old shares are deleted before the new ones are inserted
func (r *Repository) Replace(ctx context.Context, e *Expense) error {
	return r.db.WithTx(ctx, func(q database.Querier) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, e.ID); err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}

		query := `
			UPDATE expenses
			SET description = $1, notes = $2, currency = $3, amount = $4, base_currency = $5,
			    base_amount = $6, fx_rate_used = $7, paid_by = $8, occurred_at = $9,
			    split_mode = $10, updated_at = $11
			WHERE id = $12
		`
		result, err := q.ExecContext(ctx, query,
			e.Description, e.Notes, e.Currency, e.Amount, e.BaseCurrency,
			e.BaseAmount, e.FXRateUsed, e.PaidBy, e.OccurredAt,
			e.SplitMode, e.UpdatedAt,
			e.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrExpenseNotFound
		}

		return insertShares(ctx, q, e)
	})
}

// Delete removes an expense's shares and then the expense itself
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(q database.Querier) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}

		result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrExpenseNotFound
		}
		return nil
	})
}

func insertShares(ctx context.Context, q database.Querier, e *Expense) error {
	query := `
		INSERT INTO expense_shares (id, expense_id, member_id, amount, percent, weight, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, s := range e.Shares {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		s.ExpenseID = e.ID
		s.Position = i
		if _, err := q.ExecContext(ctx, query, s.ID, s.ExpenseID, s.MemberID, s.Amount, s.Percent, s.Weight, s.Position); err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}
	}
	return nil
}

// GetByID retrieves an expense with its shares, or nil when absent
func (r *Repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.attachShares(ctx, []*Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByGroupID retrieves a page of a group's expenses, most recent first
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := expenseSelect + `
		WHERE e.group_id = $1
		ORDER BY e.occurred_at DESC, e.created_at DESC, e.id
		LIMIT $2 OFFSET $3
	`
	expenses, err := r.list(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListAllByGroupID retrieves every expense in a group, most recent first
func (r *Repository) ListAllByGroupID(ctx context.Context, groupID string) ([]*Expense, error) {
	query := expenseSelect + `
		WHERE e.group_id = $1
		ORDER BY e.occurred_at DESC, e.created_at DESC, e.id
	`
	return r.list(ctx, query, groupID)
}

// ListForMember retrieves expenses the member paid for or has a share in
func (r *Repository) ListForMember(ctx context.Context, memberID string, limit int) ([]*Expense, error) {
	query := expenseSelect + `
		WHERE e.paid_by = $1
		   OR EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.member_id = $2)
		ORDER BY e.occurred_at DESC, e.created_at DESC, e.id
		LIMIT $3
	`
	return r.list(ctx, query, memberID, memberID, limit)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	if err := r.attachShares(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachShares loads the shares of every expense in one query
func (r *Repository) attachShares(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*Expense, len(expenses))
	placeholders := make([]string, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		e.Shares = []*Share{}
		byID[e.ID] = e
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = e.ID
	}

	query := `
		SELECT s.id, s.expense_id, s.member_id, s.amount, s.percent, s.weight, s.position, m.name, m.email
		FROM expense_shares s
		JOIN members m ON s.member_id = m.id
		WHERE s.expense_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY s.expense_id, s.position
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &Share{}
		var percent, weight decimal.NullDecimal
		if err := rows.Scan(
			&s.ID,
			&s.ExpenseID,
			&s.MemberID,
			&s.Amount,
			&percent,
			&weight,
			&s.Position,
			&s.MemberName,
			&s.MemberEmail,
		); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if percent.Valid {
			s.Percent = &percent.Decimal
		}
		if weight.Valid {
			s.Weight = &weight.Decimal
		}
		if e, ok := byID[s.ExpenseID]; ok {
			e.Shares = append(e.Shares, s)
		}
	}

	return rows.Err()
}
