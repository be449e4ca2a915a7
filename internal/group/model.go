package group

import "time"

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// SupportedCurrencies are the base currencies a group may use
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD"}

// Group is a set of members sharing expenses in one base currency
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	BaseCurrency string    `json:"base_currency"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Membership links a member to a group
type Membership struct {
	ID       string     `json:"id"`
	GroupID  string     `json:"group_id"`
	MemberID string     `json:"member_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`

	// Populated from JOIN
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IsAdmin reports whether the membership carries the ADMIN role
func (m *Membership) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}
