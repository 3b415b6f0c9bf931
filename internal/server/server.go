package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"dartscorer/internal/analytics"
	"dartscorer/internal/boards"
	"dartscorer/internal/config"
	"dartscorer/internal/db"
	"dartscorer/internal/engine"
	"dartscorer/internal/players"
)

type Server struct {
	Boards   *boards.Store
	Players  *players.Store
	Presets  config.Presets
	DB       *db.DB              // nil if no database configured
	Queries  *analytics.Queries  // nil if no database configured
	Gatherer prometheus.Gatherer // nil disables /metrics
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, boards.ErrBoardNotFound),
		errors.Is(err, players.ErrPlayerNotFound),
		errors.Is(err, engine.ErrPlayerNotInGame):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoSession):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNoPlayers),
		errors.Is(err, engine.ErrDuplicatePlayer),
		errors.Is(err, engine.ErrUnknownGame),
		errors.Is(err, players.ErrEmptyName),
		errors.Is(err, config.ErrUnknownPreset),
		errors.Is(err, analytics.ErrUnknownCategory):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// board resolves the :code path parameter, answering 404 when unknown.
func (s *Server) board(c *gin.Context) (*boards.Board, bool) {
	b, err := s.Boards.Get(c.Param("code"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return b, true
}
