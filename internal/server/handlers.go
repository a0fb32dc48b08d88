package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Custard69/BurnoutZero/internal/auth"
	"github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/types"
)

type handlers struct {
	deps Deps
}

// health godoc
// @Summary Service health, including dependency reachability
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *handlers) health(c *gin.Context) {
	status := "ok"
	deps := gin.H{}

	if h.deps.Store != nil {
		if err := h.deps.Store.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			deps["mongo"] = "unavailable"
		} else {
			deps["mongo"] = "ok"
		}
	}

	if h.deps.Redis != nil {
		switch {
		case !h.deps.Redis.IsEnabled():
			// Rate limiting runs on the in-memory fallback; not a fault.
			deps["redis"] = "disabled"
		case h.deps.Redis.HealthCheck(c.Request.Context()) != nil:
			status = "degraded"
			deps["redis"] = "unavailable"
		default:
			deps["redis"] = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"version":      Version,
		"timestamp":    time.Now().Format(time.RFC3339),
		"dependencies": deps,
	})
}

// checkin godoc
// @Summary Submit a wellbeing check-in and receive its burnout risk score
// @Accept json
// @Produce json
// @Param request body types.CheckinRequest true "check-in"
// @Success 200 {object} types.CheckinRecord
// @Failure 400 {object} map[string]interface{}
// @Router /api/checkin [post]
func (h *handlers) checkin(c *gin.Context) {
	var req types.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidationError("user_id is required"))
		return
	}
	h.applySessionIdentity(c, &req.UserID)

	rec, err := h.deps.Pipeline.Process(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// checkins godoc
// @Summary List a user's check-ins, newest first
// @Produce json
// @Param user_id query string true "user identity"
// @Param limit query int false "bound to most recent N"
// @Success 200 {array} types.CheckinRecord
// @Failure 400 {object} map[string]interface{}
// @Router /api/checkins [get]
func (h *handlers) checkins(c *gin.Context) {
	userID := c.Query("user_id")
	h.applySessionIdentity(c, &userID)
	if strings.TrimSpace(userID) == "" {
		h.fail(c, errors.NewValidationError("user_id is required"))
		return
	}

	var limit int64
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.ParseInt(l, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.deps.History.RecentCheckins(c.Request.Context(), userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []types.CheckinRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// predict godoc
// @Summary Score a feature payload and persist the result
// @Accept json
// @Produce json
// @Param request body types.PredictRequest true "features"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/predict [post]
func (h *handlers) predict(c *gin.Context) {
	var req types.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidationError("user_id is required"))
		return
	}
	h.applySessionIdentity(c, &req.UserID)

	rec, err := h.deps.Pipeline.ProcessPredict(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":               rec.UserID,
		"predicted_class_probs": rec.ClassProbs,
		"burnout_probability":   rec.RiskScore,
	})
}

// calendarEvents godoc
// @Summary List a user's mirrored calendar events
// @Produce json
// @Param user_id query string true "user identity"
// @Success 200 {array} types.CalendarEvent
// @Failure 400 {object} map[string]interface{}
// @Router /api/calendar/events [get]
func (h *handlers) calendarEvents(c *gin.Context) {
	userID := c.Query("user_id")
	h.applySessionIdentity(c, &userID)
	if strings.TrimSpace(userID) == "" {
		h.fail(c, errors.NewValidationError("user_id is required"))
		return
	}

	events, err := h.deps.Events.CalendarEvents(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if events == nil {
		events = []types.CalendarEvent{}
	}

	c.JSON(http.StatusOK, events)
}

// sessionToken godoc
// @Summary Mint a session token for a user identity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/session/token [post]
func (h *handlers) sessionToken(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidationError("user_id is required"))
		return
	}

	token, err := h.deps.Auth.GenerateSessionToken(req.UserID)
	if err != nil {
		h.fail(c, errors.NewInternalError("failed to mint session token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": req.UserID})
}

// applySessionIdentity overrides the request-carried identity with the
// authenticated one when a session token was presented.
func (h *handlers) applySessionIdentity(c *gin.Context, userID *string) {
	if authed, ok := auth.UserID(c); ok {
		*userID = authed
	}
}

// fail aborts the request and hands the error to the error-handling
// middleware, which owns logging and response rendering.
func (h *handlers) fail(c *gin.Context, err error) {
	c.Abort()
	_ = c.Error(err)
}
