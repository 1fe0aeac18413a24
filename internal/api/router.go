// Package api exposes the latest snapshot as a small JSON API for long
// running mode. It is a data boundary, not a rendering layer.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whosinhq/whosin/internal/application"
	"github.com/whosinhq/whosin/internal/domain"
)

type Server struct {
	holder   *application.SnapshotHolder
	settings *application.SettingsService
	refresh  func(ctx *gin.Context) error
}

func NewRouter(holder *application.SnapshotHolder, settings *application.SettingsService, refresh func(ctx *gin.Context) error) *gin.Engine {
	s := &Server{holder: holder, settings: settings, refresh: refresh}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/status", s.status)
		apiGroup.GET("/rooms", s.rooms)
		apiGroup.POST("/refresh", s.forceRefresh)
		apiGroup.POST("/people/:email/visibility", s.setVisibility)
		apiGroup.PUT("/preferences/location", s.setPreferredLocation)
	}

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	snapshot, ok := s.holder.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) rooms(c *gin.Context) {
	snapshot, ok := s.holder.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snapshot.Rooms)
}

func (s *Server) forceRefresh(c *gin.Context) {
	if err := s.refresh(c); err != nil {
		if errors.Is(err, domain.ErrReauthRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrReauthRequired.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	snapshot, _ := s.holder.Latest()
	c.JSON(http.StatusOK, snapshot)
}

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

func (s *Server) setVisibility(c *gin.Context) {
	var body visibilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := s.settings.SetVisibility(c.Request.Context(), c.Param("email"), *body.Visible)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hiddenPeople": settings.HiddenPeople})
}

type preferredLocationRequest struct {
	Location string `json:"location" binding:"required"`
}

func (s *Server) setPreferredLocation(c *gin.Context) {
	var body preferredLocationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := s.settings.SetPreferredLocation(c.Request.Context(), domain.ParseLocation(body.Location))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferredLocation": settings.PreferredLocation})
}
