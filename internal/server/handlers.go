package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/hseal/pkg/bearer"
	"github.com/dmitrymomot/hseal/pkg/email"
	"github.com/dmitrymomot/hseal/pkg/email/templates"
	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "")
		return
	}

	tok, err := s.tokens.Access.Sign(s.accessTTL,
		token.WithAudience(s.cfg.AccessAudience),
		token.WithSubject(user.ID),
		token.WithData(token.NewMap().SetString("email", user.Email)),
	)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign access token", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	ttl, _ := s.accessTTL.Resolve()
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tok, TokenType: "Bearer", ExpiresIn: ttl})
}

type meResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := bearer.PayloadFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	mail, _ := p.DataString("email")
	writeJSON(w, http.StatusOK, meResponse{
		UserID:    p.Subject,
		Email:     mail,
		IssuedAt:  p.IssuedAtTime().UTC(),
		ExpiresAt: p.ExpiresAtTime().UTC(),
	})
}

type csrfResponse struct {
	Cookie    string    `json:"cookie"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleIssueCSRF(w http.ResponseWriter, r *http.Request) {
	issued, err := s.csrf.Issue(w, chi.URLParam(r, "action"))
	if err != nil {
		if errors.Is(err, token.ErrInvalidParameter) {
			writeError(w, http.StatusBadRequest, "invalid_request", "action is required")
			return
		}
		s.log.ErrorContext(r.Context(), "issue csrf token", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	writeJSON(w, http.StatusOK, csrfResponse{Cookie: issued.CookieName, Token: issued.Token, ExpiresAt: issued.ExpiresAt.UTC()})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	p, _ := bearer.PayloadFromContext(r.Context())
	s.csrf.Clear(w, TransferAction)
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted", "user_id": p.Subject})
}

type resetRequest struct {
	Email string `json:"email"`
}

// handleResetRequest always answers 202 so callers cannot probe which
// addresses have accounts.
func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	defer writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})

	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.ErrorContext(r.Context(), "lookup user", logger.Error(err))
		}
		return
	}

	tok, err := s.tokens.OneTime.SignPasswordReset(user.ID, EmailHash(user.Email), s.resetTTL)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign reset token", logger.Error(err))
		return
	}

	ttl, _ := s.resetTTL.Std()
	expiresAt := s.now().Add(ttl)
	link := resetLink(s.cfg.ResetURL, tok)

	body, err := templates.Render(r.Context(), templates.PasswordReset(link, expiresAt))
	if err != nil {
		s.log.ErrorContext(r.Context(), "render reset email", logger.Error(err))
		return
	}
	if err := s.mail.SendEmail(r.Context(), email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  "Reset your password",
		BodyHTML: body,
		BodyText: templates.PasswordResetText(link, expiresAt),
		Tag:      "password-reset",
	}); err != nil {
		s.log.ErrorContext(r.Context(), "send reset email", logger.Subject(user.ID), logger.Error(err))
	}
}

func resetLink(base, tok string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(tok)
}

type resetConfirmRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(req.Password) < s.cfg.MinPassword {
		writeError(w, http.StatusUnprocessableEntity, "weak_password", ErrWeakPassword.Error())
		return
	}
	// Checked before the token is consumed: bcrypt refuses longer input.
	if len(req.Password) > maxPasswordBytes {
		writeError(w, http.StatusUnprocessableEntity, "weak_password", ErrPasswordTooLong.Error())
		return
	}

	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token", "")
		return
	}

	if _, err := s.tokens.OneTime.VerifyPasswordReset(r.Context(), req.Token, user.ID, EmailHash(user.Email)); err != nil {
		if errors.Is(err, token.ErrReplayUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_token", bearer.Describe(err))
		return
	}

	// The token is already spent here, so a failure asks for a new link.
	if err := s.users.SetPassword(r.Context(), user.ID, req.Password); err != nil {
		s.log.ErrorContext(r.Context(), "set password", logger.Subject(user.ID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "reset_failed", ErrResetFailed.Error())
		return
	}
	s.log.InfoContext(r.Context(), "password reset", slog.String("user_id", user.ID))
	w.WriteHeader(http.StatusNoContent)
}
