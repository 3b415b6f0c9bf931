package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"dartscorer/internal/game"
	"dartscorer/internal/modes"
)

func (s *Server) handleHealth(c *gin.Context) {
	if s.DB != nil {
		if err := s.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) handleModes(c *gin.Context) {
	all := modes.All()
	out := make([]game.ModeConfig, 0, len(all))
	for _, st := range all {
		out = append(out, st.Config())
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePresets(c *gin.Context) {
	out := make([]any, 0, len(s.Presets))
	for _, name := range s.Presets.Names() {
		out = append(out, s.Presets[name])
	}
	c.JSON(http.StatusOK, out)
}

// Players

func (s *Server) handleListPlayers(c *gin.Context) {
	c.JSON(http.StatusOK, s.Players.GetList())
}

func (s *Server) handleCreatePlayer(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := s.Players.Add(req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	if s.DB != nil {
		if err := s.DB.UpsertPlayer(c.Request.Context(), p.ID, p.Name, p.Color); err != nil {
			log.Error().Err(err).Str("player", p.ID).Msg("upsert player")
		}
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetPlayer(c *gin.Context) {
	p, err := s.Players.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeletePlayer(c *gin.Context) {
	if err := s.Players.Remove(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
