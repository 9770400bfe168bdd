package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// logQuery is the query string shared by the audit endpoints. Times accept
// RFC3339, "YYYY-MM-DD HH:MM:SS" (UTC) or "YYYY-MM-DD".
type logQuery struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Type   string `form:"type"`
	UserID string `form:"user_id"`
	Limit  int    `form:"limit"`
}

func (q logQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type, UserID: q.UserID, Limit: q.Limit}

	var err error
	if f.From, err = parseBound(q.From, false); err != nil {
		return f, fmt.Errorf("invalid 'from': %w", err)
	}
	if f.To, err = parseBound(q.To, true); err != nil {
		return f, fmt.Errorf("invalid 'to': %w", err)
	}
	return f, nil
}

// parseBound reads one end of a time range. A date-only upper bound covers
// the whole day.
func parseBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(layoutDate, s); err == nil {
		if upper {
			d = d.Add(24*time.Hour - time.Nanosecond)
		}
		return d, nil
	}
	for _, layout := range []string{time.RFC3339Nano, layoutDateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}

// @Summary      List audit events
// @Description  Mutations ordered by time. A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from     query   string  false  "Start of range"  example(2025-08-01)
// @Param        to       query   string  false  "End of range"  example(2025-08-31)
// @Param        type     query   string  false  "Event type"  Enums(CREATED,UPDATED,DELETED,SEEDED)
// @Param        user_id  query   string  false  "Only events of this user"
// @Param        limit    query   int     false  "At most this many events (default 100, max 1000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.listEvents(c, q)
}

// @Summary      History of one user
// @Description  Audit events of a user id. Deleted users keep their history.
// @Tags         logs
// @Produce      json
// @Param        id     path    string  true   "User ID"
// @Param        from   query   string  false  "Start of range"
// @Param        to     query   string  false  "End of range"
// @Param        type   query   string  false  "Event type"  Enums(CREATED,UPDATED,DELETED)
// @Param        limit  query   int     false  "At most this many events (default 100, max 1000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/users/{id}/events [get]
func (h *Handler) getUserEvents(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.UserID = c.Param("id")
	h.listEvents(c, q)
}

func (h *Handler) listEvents(c *gin.Context, q logQuery) {
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.AuditLog.List(c.Request.Context(), f)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrUnknownEventType),
		errors.Is(err, service.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		h.log.Errorw("logs_list_failed", "err", err, "user_id", f.UserID, "type", f.Type)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
