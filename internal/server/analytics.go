package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// requireDB answers 503 when persistence is not configured.
func (s *Server) requireDB(c *gin.Context) bool {
	if s.DB == nil || s.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics require a database"})
		return false
	}
	return true
}

func queryLimit(c *gin.Context, fallback int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 || n > 100 {
		return fallback
	}
	return n
}

func (s *Server) handlePlayerStats(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	stats, err := s.Queries.GetPlayerLifetimeStats(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	cat := c.DefaultQuery("cat", "wins")
	entries, err := s.Queries.GetLeaderboard(c.Request.Context(), cat, queryLimit(c, 20))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "entries": entries})
}

func (s *Server) handleGameRecap(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	rec, err := s.Queries.GetGameRecap(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleRecentGames(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	ids, err := s.DB.RecentGameIDs(c.Request.Context(), queryLimit(c, 20))
	if err != nil {
		fail(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}
