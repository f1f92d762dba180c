// Package handlers exposes the ops HTTP endpoints.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GateCounter reports the approval gate's set sizes.
type GateCounter interface {
	Counts() (pending, authorized int)
}

type StatusResponse struct {
	Pending    int `json:"pending"`
	Authorized int `json:"authorized"`
}

type StatusHandler struct {
	gate GateCounter
}

func NewStatusHandler(gate GateCounter) *StatusHandler {
	return &StatusHandler{gate: gate}
}

func (h *StatusHandler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/status", h.Status)
}

// Healthz godoc
// @Summary Liveness probe
// @Success 204
// @Router /healthz [get]
func (h *StatusHandler) Healthz(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Status godoc
// @Summary Gate counters
// @Description Current pending and authorized identity counts
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *StatusHandler) Status(c echo.Context) error {
	pending, authorized := h.gate.Counts()
	return c.JSON(http.StatusOK, StatusResponse{Pending: pending, Authorized: authorized})
}
