package model

import "time"

// Post is a piece of content owned by exactly one user.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner *User `json:"-" gorm:"foreignKey:OwnerID"`
}

// OwnerSummary is the owner projection attached to post responses.
type OwnerSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostView is a post with its owner summary resolved.
type PostView struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Owner     *OwnerSummary `json:"owner,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// View builds the response shape for the post.
func (p *Post) View() PostView {
	v := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Owner != nil {
		v.Owner = &OwnerSummary{ID: p.Owner.ID, Name: p.Owner.Name, Email: p.Owner.Email}
	} else if p.OwnerID != 0 {
		v.Owner = &OwnerSummary{ID: p.OwnerID}
	}
	return v
}
