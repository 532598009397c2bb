package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicMessage(t *testing.T) {
	driverErr := errors.New("Error 1146: Table 'quickchat.users' doesn't exist")

	tests := []struct {
		name string
		err  error
		want string
		kind Kind
	}{
		{"missing details", ErrMissingDetails, "Missing Details", KindValidation},
		{"conflict", ErrAccountExists, "Account already exists", KindConflict},
		{"auth", ErrInvalidCredentials, "Invalid credentials", KindAuth},
		{"wrapped auth", fmt.Errorf("login: %w", ErrInvalidCredentials), "Invalid credentials", KindAuth},
		{"internal hides driver text", internalError("creating account", driverErr), "Something went wrong", KindInternal},
		{"upload", &Error{Kind: KindUpload, Msg: "uploading", Err: driverErr}, "Image upload failed", KindUpload},
		{"not found", &Error{Kind: KindNotFound, Msg: "updating"}, "Account not found", KindNotFound},
		{"foreign error", driverErr, "Something went wrong", KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := internalError("hashing password", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "hashing password: boom", err.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
}
