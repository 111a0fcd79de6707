// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Users authenticate with a username (or email) and password. Only the bcrypt
// hash of the password is ever stored — see internal/auth/password.go.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tag tells encoding/json to NEVER serialize this field. Handlers
// return User values directly in responses, so without the dash a login or
// profile endpoint would leak password hashes to every client.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
