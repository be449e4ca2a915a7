package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/member"
)

// RecordSettlementRequest represents the request to record a payment
type RecordSettlementRequest struct {
	FromMemberID string          `json:"from_member_id" validate:"required"`
	ToMemberID   string          `json:"to_member_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Note         *string         `json:"note,omitempty" validate:"omitempty,max=200"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	From      member.Summary  `json:"from"`
	To        member.Summary  `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Note      *string         `json:"note,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt string          `json:"created_at"`
}

// GroupSummary identifies the group a balance sheet belongs to
type GroupSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

// BalanceLine is one member's net position. Positive means they are owed.
type BalanceLine struct {
	Member  member.Summary  `json:"member"`
	Balance decimal.Decimal `json:"balance"`
	Paid    decimal.Decimal `json:"paid"`
	Owed    decimal.Decimal `json:"owed"`
}

// BalancesResponse is a group's balance sheet plus its settlement history
type BalancesResponse struct {
	Group       GroupSummary          `json:"group"`
	Summary     []*BalanceLine        `json:"summary"`
	Settlements []*SettlementResponse `json:"settlements"`
}

// TransferResponse is one suggested payment
type TransferResponse struct {
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// SimplifyResponse lists the payments that would settle the group
type SimplifyResponse struct {
	Settlements []*TransferResponse `json:"settlements"`
	Currency    string              `json:"currency"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:        s.ID,
		GroupID:   s.GroupID,
		From:      member.Summary{ID: s.FromMemberID, Name: s.FromName, Email: s.FromEmail},
		To:        member.Summary{ID: s.ToMemberID, Name: s.ToName, Email: s.ToEmail},
		Amount:    s.Amount,
		Currency:  s.Currency,
		Note:      s.Note,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toResponses(settlements []*Settlement) []*SettlementResponse {
	out := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = s.ToResponse()
	}
	return out
}
