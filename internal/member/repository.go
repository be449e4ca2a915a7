package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles member data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new member repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member into the database
func (r *Repository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByID retrieves a member by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Member, error) {
	query := `
		SELECT id, name, email, created_at
		FROM members
		WHERE id = $1
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// GetByEmail retrieves a member by email, case-insensitively
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	query := `
		SELECT id, name, email, created_at
		FROM members
		WHERE LOWER(email) = LOWER($1)
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return m, nil
}

// Search finds members whose name or email contains q, excluding one member
func (r *Repository) Search(ctx context.Context, q, excludeID string, limit int) ([]*Member, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := `
		SELECT id, name, email, created_at
		FROM members
		WHERE (LOWER(name) LIKE $1 OR LOWER(email) LIKE $2)
		  AND id <> $3
		ORDER BY name, id
		LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
