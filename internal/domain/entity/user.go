// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account able to authenticate and own tasks.
// Users are created on registration and never modified afterwards.
type User struct {
	ID           uint      // Generated by the store on creation.
	Username     string    // Unique, case-sensitive login name.
	PasswordHash string    // One-way hash of the password; the plaintext is never stored.
	CreatedAt    time.Time // Timestamp of registration.
}
