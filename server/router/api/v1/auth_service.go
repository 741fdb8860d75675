package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func toUserResponse(user *store.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
	}
}

// Register creates an account and returns a signed token.
func (s *APIV1Service) Register(c echo.Context) error {
	ctx := c.Request().Context()
	req := &registerRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		return badRequest("username required and password must be at least 8 characters")
	}

	existing, err := s.Store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return internalError(c, s.logger, "register", err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, errorResponse{Message: "username already taken"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return internalError(c, s.logger, "register", err)
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     req.Username,
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: hash,
	})
	if err != nil {
		return internalError(c, s.logger, "register", err)
	}

	token, err := auth.SignToken(user.ID, user.Username, s.Secret)
	if err != nil {
		return internalError(c, s.logger, "register", err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

// Login verifies credentials and returns a signed token.
func (s *APIV1Service) Login(c echo.Context) error {
	ctx := c.Request().Context()
	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed request body")
	}

	user, err := s.Store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return internalError(c, s.logger, "login", err)
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, errorResponse{Message: "invalid credentials"})
	}

	token, err := auth.SignToken(user.ID, user.Username, s.Secret)
	if err != nil {
		return internalError(c, s.logger, "login", err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

// Me returns the authenticated user.
func (s *APIV1Service) Me(c echo.Context) error {
	claims := auth.GetClaims(c)
	user, err := s.Store.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return internalError(c, s.logger, "me", err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errorResponse{Message: "account no longer exists"})
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword rotates the authenticated user's password.
func (s *APIV1Service) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	claims := auth.GetClaims(c)
	req := &changePasswordRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed request body")
	}
	if len(req.NewPassword) < 8 {
		return badRequest("new password must be at least 8 characters")
	}

	user, err := s.Store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return internalError(c, s.logger, "change-password", err)
	}
	if user == nil || !auth.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, errorResponse{Message: "invalid credentials"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return internalError(c, s.logger, "change-password", err)
	}
	if err := s.Store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return internalError(c, s.logger, "change-password", err)
	}
	return c.NoContent(http.StatusNoContent)
}
