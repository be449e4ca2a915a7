package notification

import "time"

// Notification is an activity feed entry for one member
type Notification struct {
	ID                string    `json:"id"`
	RecipientID       string    `json:"recipient_id"`
	Kind              Kind      `json:"kind"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // GROUP, EXPENSE or SETTLEMENT
	RelatedEntityID   *string   `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Kind represents what happened
type Kind string

const (
	KindMemberAdded        Kind = "MEMBER_ADDED"
	KindExpenseAdded       Kind = "EXPENSE_ADDED"
	KindExpenseUpdated     Kind = "EXPENSE_UPDATED"
	KindSettlementRecorded Kind = "SETTLEMENT_RECORDED"
)
