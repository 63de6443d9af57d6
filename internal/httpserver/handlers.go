package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	authdomain "dashnotes/backend/internal/domain/auth"
	notedomain "dashnotes/backend/internal/domain/note"
	authusecase "dashnotes/backend/internal/usecase/auth"
	noteusecase "dashnotes/backend/internal/usecase/note"
)

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/api/auth/register", http.HandlerFunc(s.handleRegister))
	s.router.Handle("/api/auth/login", http.HandlerFunc(s.handleLogin))
	s.router.Handle("/api/auth/logout", http.HandlerFunc(s.handleLogout))

	authenticated := s.authMiddleware
	s.router.Handle("/api/auth/check", authenticated(http.HandlerFunc(s.handleCheck)))
	s.router.Handle("/api/auth/change-password", authenticated(http.HandlerFunc(s.handleChangePassword)))
	s.router.Handle("/api/notes", authenticated(http.HandlerFunc(s.handleNotes)))
	s.router.Handle("/api/notes/", authenticated(http.HandlerFunc(s.handleNoteByID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (p *registerRequest) normalize() {
	p.Email = strings.TrimSpace(p.Email)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload registerRequest
	if !s.decode(w, r, &payload, nil) {
		return
	}

	token, user, err := s.authService.Register(r.Context(), authusecase.RegisterInput{
		Username:        payload.Username,
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
	})
	if err != nil {
		var verr *authdomain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, authdomain.ErrUserExists):
			writeError(w, http.StatusConflict, "User with this email or username already exists")
		default:
			s.writeInternalError(w, r, err)
		}
		return
	}

	s.cookies.Attach(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload loginRequest
	if !s.decode(w, r, &payload, map[string]string{"required": "Email and password are required"}) {
		return
	}

	token, user, err := s.authService.Login(r.Context(), authdomain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.writeInternalError(w, r, err)
		return
	}

	s.cookies.Attach(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var payload changePasswordRequest
	if !s.decode(w, r, &payload, map[string]string{"required": "current_password and new_password required"}) {
		return
	}

	if err := s.authService.ChangePassword(r.Context(), identity.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		var verr *authdomain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, authdomain.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, "current password is incorrect")
		case errors.Is(err, authdomain.ErrPasswordUnchanged):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, authdomain.ErrUserNotFound):
			writeUnauthorized(w)
		default:
			s.writeInternalError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type noteRequest struct {
	Title   string `json:"note_title" validate:"required,max=200"`
	Content string `json:"note_content" validate:"required"`
}

var noteMessages = map[string]string{
	"required": "Title and content are required",
	"max":      "Title must be less than 200 characters",
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		notes, err := s.noteService.List(ctx, identity.UserID)
		if err != nil {
			s.writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
	case http.MethodPost:
		var payload noteRequest
		if !s.decode(w, r, &payload, noteMessages) {
			return
		}
		note, err := s.noteService.Create(ctx, identity.UserID, noteusecase.Input{
			Title:   payload.Title,
			Content: payload.Content,
		})
		if err != nil {
			s.writeNoteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"note": note})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	rawID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/notes/"), "/")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		note, err := s.noteService.Get(ctx, identity.UserID, id)
		if err != nil {
			s.writeNoteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"note": note})
	case http.MethodPut:
		var payload noteRequest
		if !s.decode(w, r, &payload, noteMessages) {
			return
		}
		note, err := s.noteService.Update(ctx, identity.UserID, id, noteusecase.Input{
			Title:   payload.Title,
			Content: payload.Content,
		})
		if err != nil {
			s.writeNoteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"note": note})
	case http.MethodDelete:
		if err := s.noteService.Delete(ctx, identity.UserID, id); err != nil {
			s.writeNoteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Note deleted successfully"})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, notedomain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, notedomain.ErrTitleRequired), errors.Is(err, notedomain.ErrContentRequired):
		writeError(w, http.StatusBadRequest, noteMessages["required"])
	case errors.Is(err, notedomain.ErrTitleTooLong):
		writeError(w, http.StatusBadRequest, noteMessages["max"])
	default:
		s.writeInternalError(w, r, err)
	}
}

// normalizer is implemented by request payloads that clean up fields before validation.
type normalizer interface {
	normalize()
}

// decode parses a closed-schema JSON body and validates it, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, messages map[string]string) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		if errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
		}
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if msg, ok := s.validator.Check(dst, messages); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authService.Authenticate(r.Context(), s.cookies.Read(r))
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyIdentity{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (*authdomain.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity{}).(*authdomain.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

type ctxKeyIdentity struct{}
