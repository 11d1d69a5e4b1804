// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"tasktracker/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput defines the credentials presented at login.
type LoginInput struct {
	Username string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the access token issued on a successful login.
type LoginOutput struct {
	AccessToken string
	Username    string
}

// AccountUsecase defines registration and login.
type AccountUsecase interface {
	// Register creates a new user. A taken username fails with ErrUserAlreadyExists.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the credentials and issues an access token.
	// It fails with ErrUserNotFound for an unknown username and ErrInvalidCredentials for a wrong password.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
