package model

import "time"

// Account represents a user account in the database.
type Account struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Bio          string
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupRequest represents a signup request. Profile pictures are only
// accepted through UpdateProfileRequest.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update. ProfilePic, when set, is
// an image payload (data URI or bare base64), not a URL.
type UpdateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
	Bio        string `json:"bio"`
	FullName   string `json:"fullName"`
}

// AccountResponse is the account data safe for API responses (no password hash).
type AccountResponse struct {
	ID         string    `json:"_id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewAccountResponse projects an Account onto the fields clients may see.
func NewAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		FullName:   a.FullName,
		Email:      a.Email,
		Bio:        a.Bio,
		ProfilePic: a.ProfilePic,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Account AccountResponse
	Token   string
}
