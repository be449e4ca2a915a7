package member

import "time"

// Member is a person who can belong to groups, pay for expenses and owe shares
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
