package handler

import (
	"errors"
	"net/http"
	"strings"

	"lawfirm-cms/internal/audit"
	apperrors "lawfirm-cms/pkg/errors"
	"lawfirm-cms/pkg/validator"

	"github.com/labstack/echo/v4"
)

var errLoginRejected = errors.New(msgInvalidCredentials)

type AuthHandler struct {
	userRepo      UserRepository
	hasher        PasswordHasher
	tokens        TokenGenerator
	audit         AuditRecorder
	signupEnabled bool
}

func NewAuthHandler(userRepo UserRepository, hasher PasswordHasher, tokens TokenGenerator, signupEnabled bool) *AuthHandler {
	return &AuthHandler{
		userRepo:      userRepo,
		hasher:        hasher,
		tokens:        tokens,
		audit:         noopAudit{},
		signupEnabled: signupEnabled,
	}
}

// WithAudit records signups and every login attempt in the activity log.
func (h *AuthHandler) WithAudit(a AuditRecorder) *AuthHandler {
	if a != nil {
		h.audit = a
	}
	return h
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	if !h.signupEnabled {
		return respondError(c, http.StatusForbidden, msgSignupDisabled)
	}

	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	problems := map[string]string{}
	if err := validator.Email(req.Email); err != nil {
		problems[jsonKeyEmail] = err.Error()
	}
	if err := validator.Password(req.Password); err != nil {
		problems["password"] = err.Error()
	}
	if len(problems) > 0 {
		return respondValidation(c, problems)
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	u, err := h.userRepo.Create(c.Request().Context(), req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		c.Logger().Errorf("signup failed: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	h.audit.Record(c, auditResourceUser, u.Email, audit.ActionSignup, nil)
	return respondData(c, http.StatusCreated, map[string]string{jsonKeyEmail: u.Email}, msgAccountCreated)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		h.hasher.Burn(req.Password)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	u, err := h.userRepo.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Equalize timing with the wrong-password path so unknown emails are
		// indistinguishable from known ones.
		h.hasher.Burn(req.Password)
		h.audit.Record(c, auditResourceUser, req.Email, audit.ActionLogin, errLoginRejected)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !h.hasher.Verify(req.Password, u.PasswordHash) {
		h.audit.Record(c, auditResourceUser, req.Email, audit.ActionLogin, errLoginRejected)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	token, err := h.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.audit.Record(c, auditResourceUser, u.Email, audit.ActionLogin, nil)
	return respondData(c, http.StatusOK, LoginResponse{Token: token, Email: u.Email}, msgLoggedIn)
}
