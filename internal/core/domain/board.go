package domain

import "time"

// Board groups posts. Non-owners may only see or post into public boards.
type Board struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Public    bool      `json:"public"`
	OwnerID   int64     `json:"owner_id"`
	PostCount int64     `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visibility returns "public" or "private".
func (b *Board) Visibility() string {
	if b.Public {
		return "public"
	}
	return "private"
}
