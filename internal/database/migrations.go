package database

import (
	"context"
	"fmt"
)

// Money columns are NUMERIC on Postgres and TEXT on SQLite, where NUMERIC
// affinity would silently turn "10.10" into a float.
// Tables are created parents first for the foreign keys.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    base_currency CHAR(3) NOT NULL,
    created_by TEXT NOT NULL REFERENCES members(id),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES members(id),
    role TEXT NOT NULL,
    joined_at TIMESTAMPTZ NOT NULL,
    UNIQUE (group_id, member_id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    description TEXT NOT NULL,
    notes TEXT,
    currency CHAR(3) NOT NULL,
    amount NUMERIC(18,2) NOT NULL,
    base_currency CHAR(3) NOT NULL,
    base_amount NUMERIC(18,2) NOT NULL,
    fx_rate_used NUMERIC(18,8) NOT NULL,
    paid_by TEXT NOT NULL REFERENCES members(id),
    occurred_at TIMESTAMPTZ NOT NULL,
    split_mode TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_shares (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES members(id),
    amount NUMERIC(18,2) NOT NULL,
    percent NUMERIC(9,4),
    weight NUMERIC(18,6),
    position INTEGER NOT NULL,
    UNIQUE (expense_id, member_id)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    from_member_id TEXT NOT NULL REFERENCES members(id),
    to_member_id TEXT NOT NULL REFERENCES members(id),
    amount NUMERIC(18,2) NOT NULL,
    currency CHAR(3) NOT NULL,
    note TEXT,
    created_by TEXT NOT NULL REFERENCES members(id),
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    recipient_id TEXT NOT NULL REFERENCES members(id),
    kind TEXT NOT NULL,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    related_entity_type TEXT,
    related_entity_id TEXT,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_member_id ON group_members(member_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expense_shares_member_id ON expense_shares(member_id);
CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    base_currency TEXT NOT NULL,
    created_by TEXT NOT NULL REFERENCES members(id),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES members(id),
    role TEXT NOT NULL,
    joined_at TIMESTAMP NOT NULL,
    UNIQUE (group_id, member_id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    description TEXT NOT NULL,
    notes TEXT,
    currency TEXT NOT NULL,
    amount TEXT NOT NULL,
    base_currency TEXT NOT NULL,
    base_amount TEXT NOT NULL,
    fx_rate_used TEXT NOT NULL,
    paid_by TEXT NOT NULL REFERENCES members(id),
    occurred_at TIMESTAMP NOT NULL,
    split_mode TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_shares (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES members(id),
    amount TEXT NOT NULL,
    percent TEXT,
    weight TEXT,
    position INTEGER NOT NULL,
    UNIQUE (expense_id, member_id)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    from_member_id TEXT NOT NULL REFERENCES members(id),
    to_member_id TEXT NOT NULL REFERENCES members(id),
    amount TEXT NOT NULL,
    currency TEXT NOT NULL,
    note TEXT,
    created_by TEXT NOT NULL REFERENCES members(id),
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    recipient_id TEXT NOT NULL REFERENCES members(id),
    kind TEXT NOT NULL,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    related_entity_type TEXT,
    related_entity_id TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_member_id ON group_members(member_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expense_shares_member_id ON expense_shares(member_id);
CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id);
`

// Migrate creates any missing tables and indexes
func (db *DB) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if db.dialect == SQLite {
		schema = sqliteSchema
	}
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
