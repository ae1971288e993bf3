package models

import "time"

// Contact belongs to exactly one user; every query against contacts is scoped
// by UserID.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	BornDate  *Date     `json:"born_date,omitempty"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
