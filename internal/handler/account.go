package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quickchat/quickchat-go/internal/metrics"
	"github.com/quickchat/quickchat-go/internal/middleware"
	"github.com/quickchat/quickchat-go/internal/model"
	"github.com/quickchat/quickchat-go/internal/service"
)

const (
	maxAuthBody    = 1 << 20 // 1MB
	maxProfileBody = 8 << 20 // 8MB, room for a base64 encoded 5MB image
)

// AccountService is the business logic behind the account routes.
type AccountService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.AuthResult, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error)
	UpdateProfile(ctx context.Context, accountID string, req model.UpdateProfileRequest) (model.AccountResponse, error)
}

// AccountHandler handles HTTP requests for the account routes. Every answer
// is a JSON envelope with status 200; success is reported in the body.
type AccountHandler struct {
	service AccountService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc AccountService, m *metrics.Metrics, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{service: svc, metrics: m, logger: logger}
}

// HandleSignup handles POST /api/auth/signup requests.
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !h.decode(w, r, "signup", maxAuthBody, &req) {
		return
	}

	res, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	h.metrics.Record("signup", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, model.Envelope{
		Success:  true,
		UserData: &res.Account,
		Token:    res.Token,
		Message:  "Account created successfully",
	})
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !h.decode(w, r, "login", maxAuthBody, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	h.metrics.Record("login", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, model.Envelope{
		Success:  true,
		UserData: &res.Account,
		Token:    res.Token,
		Message:  "Login successfully",
	})
}

// HandleCheckAuth handles GET /api/auth/check requests. It echoes the
// account the verifier attached and does not touch the store.
func (h *AccountHandler) HandleCheckAuth(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.metrics.Record("check", metrics.OutcomeFailure)
		writeJSON(w, http.StatusOK, model.Failure("Not authorized"))
		return
	}

	h.metrics.Record("check", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, User: &acc})
}

// HandleUpdateProfile handles PUT /api/auth/update-profile requests.
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.metrics.Record("update_profile", metrics.OutcomeFailure)
		writeJSON(w, http.StatusOK, model.Failure("Not authorized"))
		return
	}

	var req model.UpdateProfileRequest
	if !h.decode(w, r, "update_profile", maxProfileBody, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), acc.ID, req)
	if err != nil {
		h.fail(w, r, "update_profile", err)
		return
	}

	h.metrics.Record("update_profile", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, User: &updated})
}

func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, op string, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.metrics.Record(op, metrics.OutcomeFailure)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusOK, model.Failure("Request body too large"))
			return false
		}
		writeJSON(w, http.StatusOK, model.Failure("Invalid request body"))
		return false
	}
	return true
}

func (h *AccountHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.metrics.Record(op, metrics.OutcomeFailure)

	switch kind := service.KindOf(err); kind {
	case service.KindInternal, service.KindUpload, service.KindNotFound:
		h.logger.ErrorContext(r.Context(), op+" failed", "kind", kind.String(), "error", err)
	default:
		h.logger.DebugContext(r.Context(), op+" rejected", "kind", kind.String(), "error", err)
	}

	writeJSON(w, http.StatusOK, model.Failure(service.PublicMessage(err)))
}
