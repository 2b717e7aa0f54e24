package checkins

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harbor-backend/internal/shared/server/middleware"
	"harbor-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	Active middleware.ActiveChecker
}

// NewHandler constructs a Handler. active may be nil.
func NewHandler(svc *Service, active middleware.ActiveChecker) *Handler {
	return &Handler{Svc: svc, Active: active}
}

// RegisterRoutes attaches check-in routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkins", h.submit)

	private := rg.Group("/checkins", middleware.RequireUser(h.Active))
	private.GET("/history", h.history)
	private.GET("/latest", h.latest)
	private.GET("/progress", h.progress)
	private.GET("/analytics/summary", middleware.RequireAdmin(), h.analyticsSummary)
	private.GET("/:id", h.get)
	private.DELETE("/:id", h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	var answers Questionnaire
	if err := c.ShouldBindJSON(&answers); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	checkIn, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		Answers:   answers,
		UserID:    userID,
		GuestID:   middleware.GuestIDFromContext(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		SessionID: middleware.GuestIDFromContext(c),
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Validation failed", verr.Fields)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit check-in", nil)
		}
		return
	}

	c.Set("checkinId", checkIn.ID)
	c.Set("riskLevel", checkIn.Assessment.RiskLevel.String())

	var user *userRef
	if userID != "" {
		user = &userRef{
			ID:    userID,
			Name:  middleware.UserNameFromContext(c),
			Email: middleware.UserEmailFromContext(c),
		}
	}
	respond.JSON(c, http.StatusCreated, submitResponse{
		Message: "Check-in assessment completed successfully",
		CheckIn: submittedResult{
			ID:          checkIn.ID,
			Assessment:  checkIn.Assessment,
			CompletedAt: checkIn.CompletedAt,
			User:        user,
		},
	})
}

func (h *Handler) history(c *gin.Context) {
	page := queryInt(c, "page")
	limit := queryInt(c, "limit")

	result, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), page, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	respond.OK(c, toHistory(result))
}

func (h *Handler) latest(c *gin.Context) {
	checkIn, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "No check-ins found for this user", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load check-in", nil)
		return
	}
	c.Set("checkinId", checkIn.ID)
	respond.OK(c, toResponse(checkIn))
}

func (h *Handler) progress(c *gin.Context) {
	result, err := h.Svc.Progress(c.Request.Context(), middleware.UserIDFromContext(c), queryInt(c, "days"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load progress", nil)
		return
	}
	respond.OK(c, toProgress(result))
}

func (h *Handler) analyticsSummary(c *gin.Context) {
	summary, err := h.Svc.AnalyticsSummary(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analytics", nil)
		return
	}
	respond.OK(c, toAnalytics(summary))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("checkinId", id)
	checkIn, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Check-in not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load check-in", nil)
		return
	}
	respond.OK(c, toResponse(checkIn))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("checkinId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Check-in not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete check-in", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Check-in deleted successfully"})
}

// queryInt returns 0 for missing or malformed values so callers fall back to defaults.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
