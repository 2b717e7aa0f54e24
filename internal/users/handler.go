package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"harbor-backend/internal/shared/server/middleware"
	"harbor-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)

	private := rg.Group("/auth", middleware.RequireUser(h.Svc))
	private.GET("/me", h.me)
	private.PUT("/profile", h.updateProfile)
	private.PUT("/password", h.changePassword)
	private.POST("/logout", h.logout)
	private.DELETE("/account", h.deactivate)
	private.GET("/stats", middleware.RequireAdmin(), h.stats)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to register")
		return
	}
	respond.JSON(c, http.StatusCreated, sessionResponse{
		Message: "User registered successfully",
		Token:   session.Token,
		User:    toUserResponse(session.User),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, err, "failed to log in")
		return
	}
	respond.OK(c, sessionResponse{
		Message: "Login successful",
		Token:   session.Token,
		User:    toUserResponse(session.User),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to load user")
		return
	}
	respond.OK(c, gin.H{"user": toUserResponse(user)})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to update profile")
		return
	}
	respond.OK(c, gin.H{"message": "Profile updated successfully", "user": toUserResponse(user)})
}

func (h *Handler) changePassword(c *gin.Context) {
	var in PasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to change password")
		return
	}
	respond.OK(c, gin.H{"message": "Password updated successfully", "token": session.Token})
}

// logout is stateless; clients discard their token.
func (h *Handler) logout(c *gin.Context) {
	respond.OK(c, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err, "failed to deactivate account")
		return
	}
	respond.OK(c, gin.H{"message": "Account deactivated successfully"})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load stats")
		return
	}
	respond.OK(c, gin.H{"stats": st})
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Validation failed", verr.Fields)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusBadRequest, "email_taken", "User with this email already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
	case errors.Is(err, ErrInactive):
		respond.Error(c, http.StatusUnauthorized, "account_inactive", "Account has been deactivated. Please contact support.", nil)
	case errors.Is(err, ErrWrongPassword):
		respond.Error(c, http.StatusBadRequest, "invalid_password", "Current password is incorrect", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
