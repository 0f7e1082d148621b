package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address belongs to exactly one user. Orders copy its fields by value at
// placement time; later edits never alter order history.
type Address struct {
	ID       string `json:"id"`
	UserID   string `json:"-"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}
