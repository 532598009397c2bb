package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/quickchat/quickchat-go/internal/crypto"
	"github.com/quickchat/quickchat-go/internal/model"
	"github.com/quickchat/quickchat-go/internal/repository"
	"github.com/quickchat/quickchat-go/internal/storage"
)

const (
	identityTTL     = 5 * time.Minute
	identityCleanup = 10 * time.Minute
)

// AccountStore persists accounts.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	Create(ctx context.Context, acc *model.Account) error
	UpdateProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*model.Account, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) (bool, error)
}

// ImageUploader stores an image payload and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, payload string) (string, error)
}

// TokenConfig holds what the token issuer needs.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// AccountService handles signup, login and profile business logic.
type AccountService struct {
	store      AccountStore
	hasher     PasswordHasher
	uploader   ImageUploader
	tokens     TokenConfig
	identities *cache.Cache
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, hasher PasswordHasher, uploader ImageUploader, tokens TokenConfig) *AccountService {
	return &AccountService{
		store:      store,
		hasher:     hasher,
		uploader:   uploader,
		tokens:     tokens,
		identities: cache.New(identityTTL, identityCleanup),
	}
}

// Signup creates a new account and returns it with an auth token.
func (s *AccountService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResult, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)
	req.Bio = strings.TrimSpace(req.Bio)
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Bio == "" {
		return model.AuthResult{}, ErrMissingDetails
	}

	_, err := s.store.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResult{}, ErrAccountExists
	case !errors.Is(err, repository.ErrAccountNotFound):
		return model.AuthResult{}, internalError("looking up email", err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return model.AuthResult{}, validationError("Password is too long", err)
		}
		return model.AuthResult{}, internalError("hashing password", err)
	}

	acc := &model.Account{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Bio:          req.Bio,
	}
	if err := s.store.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResult{}, ErrAccountExists
		}
		return model.AuthResult{}, internalError("creating account", err)
	}

	return s.authResult(acc)
}

// Login authenticates an account by email and password. An unknown email and
// a wrong password fail identically.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return model.AuthResult{}, ErrMissingDetails
	}

	acc, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.AuthResult{}, ErrInvalidCredentials
		}
		return model.AuthResult{}, internalError("looking up email", err)
	}

	match, err := s.hasher.Compare(ctx, acc.PasswordHash, req.Password)
	if err != nil {
		return model.AuthResult{}, internalError("comparing password", err)
	}
	if !match {
		return model.AuthResult{}, ErrInvalidCredentials
	}

	return s.authResult(acc)
}

// UpdateProfile changes the caller's name and bio and, when a picture payload
// is given, uploads it and stores its URL in the same write. A failed upload
// leaves the account untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, req model.UpdateProfileRequest) (model.AccountResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if accountID == "" || req.FullName == "" {
		return model.AccountResponse{}, ErrMissingDetails
	}

	upd := repository.ProfileUpdate{FullName: req.FullName, Bio: req.Bio}
	if req.ProfilePic != "" {
		url, err := s.uploader.Upload(ctx, req.ProfilePic)
		if err != nil {
			return model.AccountResponse{}, uploadError(err)
		}
		upd.ProfilePic = &url
	}

	acc, err := s.store.UpdateProfile(ctx, accountID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			s.identities.Delete(accountID)
			return model.AccountResponse{}, &Error{Kind: KindNotFound, Msg: "updating profile", Err: err}
		}
		return model.AccountResponse{}, internalError("updating profile", err)
	}

	resp := model.NewAccountResponse(acc)
	s.identities.SetDefault(acc.ID, resp)
	return resp, nil
}

// Identity resolves a verified account ID to the account data attached to
// authenticated requests. Results are cached briefly.
func (s *AccountService) Identity(ctx context.Context, accountID string) (model.AccountResponse, error) {
	if cached, ok := s.identities.Get(accountID); ok {
		return cached.(model.AccountResponse), nil
	}

	acc, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.AccountResponse{}, &Error{Kind: KindNotFound, Msg: "resolving identity", Err: err}
		}
		return model.AccountResponse{}, internalError("resolving identity", err)
	}

	resp := model.NewAccountResponse(acc)
	s.identities.SetDefault(acc.ID, resp)
	return resp, nil
}

// ParseToken validates a token and returns the account ID it was issued for.
func (s *AccountService) ParseToken(token string) (string, error) {
	claims, err := crypto.ValidateToken(token, s.tokens.Secret)
	if err != nil {
		return "", &Error{Kind: KindAuth, Msg: "Not authorized", Err: err}
	}
	return claims.UserID, nil
}

func (s *AccountService) authResult(acc *model.Account) (model.AuthResult, error) {
	token, err := crypto.IssueToken(acc.ID, s.tokens.Secret, s.tokens.Expiry)
	if err != nil {
		return model.AuthResult{}, internalError("issuing token", err)
	}
	return model.AuthResult{
		Account: model.NewAccountResponse(acc),
		Token:   token,
	}, nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, storage.ErrEmptyImage), errors.Is(err, storage.ErrInvalidImage):
		return validationError("Profile picture could not be read", err)
	case errors.Is(err, storage.ErrNotAnImage):
		return validationError("Profile picture must be a PNG, JPEG, GIF or WebP image", err)
	case errors.Is(err, storage.ErrImageTooLarge):
		return validationError("Profile picture must be smaller than 5MB", err)
	default:
		return &Error{Kind: KindUpload, Msg: "uploading profile picture", Err: err}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
