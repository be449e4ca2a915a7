package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	BaseCurrency string  `json:"base_currency" validate:"required,oneof=USD EUR GBP INR CAD AUD"`
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	BaseCurrency string            `json:"base_currency"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
	Members      []*MemberResponse `json:"members,omitempty"`
}

// DetailResponse is a group with its members and activity
type DetailResponse struct {
	*GroupResponse
	*Activity
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	ID       string     `json:"id"`
	MemberID string     `json:"member_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     MemberRole `json:"role"`
	JoinedAt string     `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		BaseCurrency: g.BaseCurrency,
		CreatedBy:    g.CreatedBy,
		CreatedAt:    g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    g.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Membership model to a MemberResponse DTO
func (m *Membership) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:       m.ID,
		MemberID: m.MemberID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     m.Role,
		JoinedAt: m.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func membersToResponse(members []*Membership) []*MemberResponse {
	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	return out
}
