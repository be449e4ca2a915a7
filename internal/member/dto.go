package member

// CreateMemberRequest represents the request body for creating a member
type CreateMemberRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// MemberResponse represents the response for a single member
type MemberResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Summary is the compact identity embedded in other responses
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToSummary converts a Member model to a Summary
func (m *Member) ToSummary() Summary {
	return Summary{ID: m.ID, Name: m.Name, Email: m.Email}
}
