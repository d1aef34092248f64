package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"printsync/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseHistoryFilter reads the shared from/to/limit query parameters.
// Returns false if the request was already answered with a 400.
func (h *Handler) parseHistoryFilter(c *gin.Context) (service.HistoryFilter, bool) {
	var f service.HistoryFilter

	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
		f.From = t
	}
	// If only a date is provided for 'to', make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return f, false
	}
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil && v > 0 {
			f.Limit = v
		}
	}
	return f, true
}

// @Summary      Archived console entries
// @Description  Filter persisted console output by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         history
// @Produce      json
// @Param        from   query  string  false  "Start of range"  example(2026-08-01)
// @Param        to     query  string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        limit  query  int     false  "Max entries"
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/console [get]
// @Security     BearerAuth
func (h *Handler) getConsoleHistory(c *gin.Context) {
	f, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}
	entries, err := h.services.Archive.ConsoleHistory(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load console history",
			"console_history_failed", err, "from", f.From, "to", f.To)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// @Summary      Archived chart samples
// @Description  Filter persisted sensor samples by date. Accepts the same time formats as the console history endpoint.
// @Tags         history
// @Produce      json
// @Param        from   query  string  false  "Start of range"  example(2026-08-01)
// @Param        to     query  string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        limit  query  int     false  "Max samples"
// @Success      200  {object}  map[string]interface{}  "count, points"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/chart [get]
// @Security     BearerAuth
func (h *Handler) getChartHistory(c *gin.Context) {
	f, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}
	points, err := h.services.Archive.SampleHistory(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load chart history",
			"chart_history_failed", err, "from", f.From, "to", f.To)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
