package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"printsync/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK   = "ok"
	statusSent = "sent"

	errGcodeFailed     = "failed to send gcode"
	errInvalidBodyPref = "invalid body: "

	maxConsoleLimit = 1000
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for submitting a gcode script.
type gcodeRequest struct {
	Script string `json:"script" binding:"required"`
}

// SendGcodeRequest is an exported model for Swagger docs of the gcode payload.
type SendGcodeRequest struct {
	// Script to run, one or more gcode lines
	Script string `json:"script" example:"G28"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, connection, ready"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	st := h.services.Monitor.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":     statusOK,
		"connection": st.ConnState,
		"ready":      st.Ready,
	})
}

// @Summary      Printer status
// @Description  Connection state and the latest printer info mirrored from the controller.
// @Tags         printer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/printer/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitor.Snapshot())
}

// @Summary      Live temperature chart
// @Description  The rolling window of sensor samples kept in memory.
// @Tags         printer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, points"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/printer/chart [get]
// @Security     BearerAuth
func (h *Handler) getChart(c *gin.Context) {
	points := h.services.Monitor.Chart()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}

// @Summary      Console window
// @Description  The most recent console entries. 'limit' caps the count (default all retained).
// @Tags         printer
// @Produce      json
// @Param        limit  query  int  false  "Max entries to return"  example(100)
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/printer/console [get]
// @Security     BearerAuth
func (h *Handler) getConsole(c *gin.Context) {
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil && v > 0 && v <= maxConsoleLimit {
			limit = v
		}
	}
	entries := h.services.Monitor.Console(limit)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// @Summary      List gcode macros
// @Tags         printer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, macros"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/printer/macros [get]
// @Security     BearerAuth
func (h *Handler) getMacros(c *gin.Context) {
	macros := h.services.Monitor.Macros()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(macros),
		"macros": macros,
	})
}

// @Summary      Power devices and roots
// @Description  The latest power device states and registered file roots reported by the controller.
// @Tags         printer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "devices, roots"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/printer/power [get]
// @Security     BearerAuth
func (h *Handler) getPower(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"devices": h.services.Peripherals.PowerDevices(),
		"roots":   h.services.Peripherals.RootDirectories(),
	})
}

// @Summary      Send gcode
// @Tags         printer
// @Accept       json
// @Produce      json
// @Param        body  body      SendGcodeRequest  true  "Gcode payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/printer/gcode [post]
// @Security     BearerAuth
func (h *Handler) postGcode(c *gin.Context) {
	var req gcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Monitor.SendGcode(req.Script); err != nil {
		if errors.Is(err, service.ErrEmptyScript) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errGcodeFailed, "gcode_send_failed", err, "script", req.Script)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent})
}
