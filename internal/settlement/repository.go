package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles settlement data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const settlementSelect = `
	SELECT s.id, s.group_id, s.from_member_id, s.to_member_id, s.amount, s.currency, s.note,
	       s.created_by, s.created_at, f.name, f.email, t.name, t.email
	FROM settlements s
	JOIN members f ON s.from_member_id = f.id
	JOIN members t ON s.to_member_id = t.id
`

func scanSettlement(row interface{ Scan(...any) error }) (*Settlement, error) {
	s := &Settlement{}
	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.FromMemberID,
		&s.ToMemberID,
		&s.Amount,
		&s.Currency,
		&s.Note,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.FromName,
		&s.FromEmail,
		&s.ToName,
		&s.ToEmail,
	)
	return s, err
}

// Create inserts a new settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) error {
	query := `
		INSERT INTO settlements (id, group_id, from_member_id, to_member_id, amount, currency, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.GroupID, s.FromMemberID, s.ToMemberID, s.Amount, s.Currency, s.Note, s.CreatedBy, s.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// GetByID retrieves a settlement with both parties resolved, or nil when absent
func (r *Repository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	s, err := scanSettlement(r.db.QueryRowContext(ctx, settlementSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return s, nil
}

// ListByGroupID retrieves a group's settlements, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID string) ([]*Settlement, error) {
	query := settlementSelect + `
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC, s.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	settlements := []*Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}
