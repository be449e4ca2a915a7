package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement records a real-world payment between two group members.
// Settlements are append-only.
type Settlement struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	FromMemberID string          `json:"from_member_id"` // who paid
	ToMemberID   string          `json:"to_member_id"`   // who received
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Note         *string         `json:"note,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`

	// Populated via JOIN
	FromName  string `json:"from_name,omitempty"`
	FromEmail string `json:"from_email,omitempty"`
	ToName    string `json:"to_name,omitempty"`
	ToEmail   string `json:"to_email,omitempty"`
}
