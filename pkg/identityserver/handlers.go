package identityserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/logging"
)

// sessionResponse matches the portal client's Session shape.
type sessionResponse struct {
	User  authstate.User      `json:"user"`
	Token authstate.AuthToken `json:"token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token authstate.AuthToken `json:"token"`
}

type profileResponse struct {
	User authstate.User `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authstate.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		// Same response as a bad password so emails cannot be probed.
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !s.users.VerifyPassword(user, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.metrics.RecordAuthAttempt("login")
	s.respondJSON(w, http.StatusOK, sessionResponse{User: user.Profile(), Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authstate.RegisterFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Self-registered accounts always start as regular users.
	user, err := s.users.CreateUser(req.Email, req.Password, req.FirstName, req.LastName, authstate.RoleUser)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			s.respondError(w, http.StatusConflict, "Email already exists")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.metrics.RecordAuthAttempt("register")
	s.respondJSON(w, http.StatusCreated, sessionResponse{User: user.Profile(), Token: token})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		s.respondError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	userID, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	token, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.metrics.RecordAuthAttempt("refresh_token")
	s.respondJSON(w, http.StatusOK, refreshResponse{Token: token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authenticate(r)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Re-read the store so a deleted account cannot keep using its token.
	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.respondJSON(w, http.StatusOK, profileResponse{User: user.Profile()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless, so there is nothing to revoke server-side. The
	// endpoint exists so the client's logout flow has a remote call to make.
	s.respondJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	// Accepted whether or not the account exists, to avoid leaking which
	// emails are registered. No mail is sent in the development server.
	if _, err := s.users.GetUserByEmail(req.Email); err == nil {
		s.logger.Info("password reset requested", logging.String("email", req.Email))
	}

	s.respondJSON(w, http.StatusAccepted, struct{}{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// issueTokens generates the access/refresh pair for a user.
func (s *Server) issueTokens(user *User) (authstate.AuthToken, error) {
	access, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return authstate.AuthToken{}, err
	}

	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return authstate.AuthToken{}, err
	}

	return authstate.AuthToken{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.TokenDuration() / time.Second),
		IssuedAt:     time.Now().Unix(),
	}, nil
}
