package models

import "time"

// User is a row of the users table. Email is unique across all users;
// CreatedAt is assigned by the database on insert and never changes.
type User struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
