package group

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles group data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new group repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithAdmin inserts a group and its creator's ADMIN membership in one transaction
func (r *Repository) CreateWithAdmin(ctx context.Context, g *Group, admin *Membership) error {
	return r.db.WithTx(ctx, func(q database.Querier) error {
		query := `
			INSERT INTO groups (id, name, description, base_currency, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := q.ExecContext(ctx, query,
			g.ID, g.Name, g.Description, g.BaseCurrency, g.CreatedBy, g.CreatedAt, g.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		return addMember(ctx, q, admin)
	})
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, description, base_currency, created_by, created_at, updated_at
		FROM groups
		WHERE id = $1
	`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.BaseCurrency,
		&g.CreatedBy,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return g, nil
}

// ListByMemberID retrieves the groups a member belongs to, newest first
func (r *Repository) ListByMemberID(ctx context.Context, memberID string, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM group_members
		WHERE member_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, memberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.base_currency, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.member_id = $1
		ORDER BY g.created_at DESC, g.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*Group{}
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.BaseCurrency,
			&g.CreatedBy,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, total, rows.Err()
}

// AddMember inserts a membership
func (r *Repository) AddMember(ctx context.Context, m *Membership) error {
	return addMember(ctx, r.db, m)
}

func addMember(ctx context.Context, q database.Querier, m *Membership) error {
	query := `
		INSERT INTO group_members (id, group_id, member_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := q.ExecContext(ctx, query, m.ID, m.GroupID, m.MemberID, m.Role, m.JoinedAt); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

const membershipSelect = `
	SELECT gm.id, gm.group_id, gm.member_id, gm.role, gm.joined_at, m.name, m.email
	FROM group_members gm
	JOIN members m ON gm.member_id = m.id
`

func scanMembership(row interface{ Scan(...any) error }, m *Membership) error {
	return row.Scan(&m.ID, &m.GroupID, &m.MemberID, &m.Role, &m.JoinedAt, &m.Name, &m.Email)
}

// GetMembers retrieves all members of a group in the order they joined
func (r *Repository) GetMembers(ctx context.Context, groupID string) ([]*Membership, error) {
	query := membershipSelect + `
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []*Membership{}
	for rows.Next() {
		m := &Membership{}
		if err := scanMembership(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// GetMembersForGroups retrieves memberships for several groups at once, keyed by group ID
func (r *Repository) GetMembersForGroups(ctx context.Context, groupIDs []string) (map[string][]*Membership, error) {
	out := make(map[string][]*Membership, len(groupIDs))
	if len(groupIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(groupIDs))
	args := make([]any, len(groupIDs))
	for i, id := range groupIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := membershipSelect + `
		WHERE gm.group_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY gm.joined_at, gm.id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &Membership{}
		if err := scanMembership(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out[m.GroupID] = append(out[m.GroupID], m)
	}

	return out, rows.Err()
}

// GetMember retrieves one membership, or nil when the member is not in the group
func (r *Repository) GetMember(ctx context.Context, groupID, memberID string) (*Membership, error) {
	query := membershipSelect + `
		WHERE gm.group_id = $1 AND gm.member_id = $2
	`

	m := &Membership{}
	if err := scanMembership(r.db.QueryRowContext(ctx, query, groupID, memberID), m); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}
