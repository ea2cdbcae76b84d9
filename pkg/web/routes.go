// Package web provides API routes for the web server.
package web

import (
	"context"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

// Status is the snapshot reported by /api/status
type Status struct {
	BotReady         bool   `json:"botReady"`
	Storage          string `json:"storage"`
	LogChannelSet    bool   `json:"logChannelSet"`
	PendingReversals int    `json:"pendingReversals"`
	Uptime           string `json:"uptime"`
}

// RuntimeStats describes the running process
type RuntimeStats struct {
	GoVersion        string  `json:"goVersion"`
	DiscordgoVersion string  `json:"discordgoVersion"`
	Goroutines       int     `json:"goroutines"`
	AllocMB          float64 `json:"allocMb"`
}

type statusResponse struct {
	Status
	Runtime RuntimeStats `json:"runtime"`
}

func runtimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:        strings.TrimPrefix(runtime.Version(), "go"),
		DiscordgoVersion: discordgo.VERSION,
		Goroutines:       runtime.NumGoroutine(),
		AllocMB:          float64(m.Alloc) / 1024 / 1024,
	}
}

// StatusFunc builds the current Status
type StatusFunc func(ctx context.Context) Status

// SetupRoutes sets up the liveness and API routes
func SetupRoutes(s *Server, status StatusFunc) {
	s.GET("/", rootHandler)

	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/status", statusHandler(status))
	}
}

// rootHandler answers uptime pings from the hosting platform
func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Bot is running!")
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
	})
}

func statusHandler(status StatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		st := status(ctx)
		code := http.StatusOK
		if !st.BotReady {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, statusResponse{Status: st, Runtime: runtimeStats()})
	}
}
