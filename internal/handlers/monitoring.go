package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"blogapi/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// MonitorHandler exposes runtime reports behind the X-Monitoring-Key header.
type MonitorHandler struct {
	service *monitoring.Service
	apiKey  string
}

func NewMonitorHandler(service *monitoring.Service, apiKey string) *MonitorHandler {
	return &MonitorHandler{service: service, apiKey: strings.TrimSpace(apiKey)}
}

func (h *MonitorHandler) checkMonitoringToken(c *gin.Context) bool {
	if h.apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitoring API is disabled"})
		return false
	}

	provided := strings.TrimSpace(c.GetHeader("X-Monitoring-Key"))
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.apiKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid monitoring key"})
		return false
	}
	return true
}

func (h *MonitorHandler) MonitorStatus(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.service.StatusText(c.Request.Context())})
}

func (h *MonitorHandler) MonitorSnapshot(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}
