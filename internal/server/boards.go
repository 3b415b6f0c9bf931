package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dartscorer/internal/boards"
	"dartscorer/internal/dart"
	"dartscorer/internal/engine"
	"dartscorer/internal/game"
)

type boardView struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Clients   int           `json:"clients"`
	Session   *game.Session `json:"session,omitempty"`
}

func viewOf(b *boards.Board) boardView {
	return boardView{
		Code:      b.Code,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		Clients:   b.Hub.Len(),
		Session:   b.Controller.ActiveSession(),
	}
}

func (s *Server) handleListBoards(c *gin.Context) {
	list := s.Boards.List()
	out := make([]boardView, 0, len(list))
	for _, b := range list {
		out = append(out, viewOf(b))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateBoard(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// an empty body is fine
	_ = c.ShouldBindJSON(&req)
	b, err := s.Boards.Create(req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(b))
}

func (s *Server) handleGetBoard(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(b))
}

func (s *Server) handleDeleteBoard(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	s.Boards.Delete(b.Code)
	c.Status(http.StatusNoContent)
}

type startRequest struct {
	Game    game.GameID      `json:"game"`
	Preset  string           `json:"preset"`
	Players []string         `json:"players"`
	Guests  []engine.Entrant `json:"guests"`
	Options *game.Options    `json:"options"`
}

// resolve turns a start request into the game, roster and options for the
// controller. A preset supplies game and options unless the request
// overrides them.
func (s *Server) resolve(req startRequest) (game.GameID, []engine.Entrant, game.Options, error) {
	id := req.Game
	var opts game.Options
	if req.Preset != "" {
		p, err := s.Presets.Get(req.Preset)
		if err != nil {
			return "", nil, opts, err
		}
		opts = p.Options
		if id == "" {
			id = p.Game
		}
	}
	if req.Options != nil {
		opts = *req.Options
	}
	roster, err := s.Players.Entrants(req.Players)
	if err != nil {
		return "", nil, opts, err
	}
	roster = append(roster, req.Guests...)
	return id, roster, opts, nil
}

func (s *Server) handleStartSession(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	id, roster, opts, err := s.resolve(req)
	if err != nil {
		fail(c, err)
		return
	}
	if err := b.Controller.StartSession(id, roster, opts); err != nil {
		fail(c, err)
		return
	}
	b.Touch(time.Now())
	c.JSON(http.StatusCreated, b.Controller.ActiveSession())
}

func (s *Server) handleGetSession(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	sess := b.Controller.ActiveSession()
	if sess == nil {
		fail(c, engine.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleRematch(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if err := b.Controller.Rematch(); err != nil {
		fail(c, err)
		return
	}
	b.Touch(time.Now())
	c.JSON(http.StatusCreated, b.Controller.ActiveSession())
}

type throwRequest struct {
	Segment    string `json:"segment"`
	Base       int    `json:"base"`
	Multiplier int    `json:"multiplier"`
	Hits       *int   `json:"hits"`
}

func (r throwRequest) input() game.Input {
	if r.Hits != nil {
		return game.HitsInput(*r.Hits)
	}
	return game.ThrowInput(dart.Normalize(dart.SensorRecord{
		Segment:    r.Segment,
		Base:       r.Base,
		Multiplier: r.Multiplier,
	}))
}

func (s *Server) handleThrow(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	var req throwRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	step := b.Controller.Submit(req.input())
	b.Touch(time.Now())
	status := http.StatusOK
	if step.Reason == engine.DropNoSession {
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"step": step, "session": b.Controller.ActiveSession()})
}

func (s *Server) handleUndo(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	undone := b.Controller.Undo()
	b.Touch(time.Now())
	c.JSON(http.StatusOK, gin.H{"undone": undone, "session": b.Controller.ActiveSession()})
}

func (s *Server) handleResults(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if id := c.Query("player"); id != "" {
		r, err := b.Controller.ResultData(id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
		return
	}
	results, err := b.Controller.Results()
	if err != nil {
		fail(c, err)
		return
	}
	resp := gin.H{"results": results}
	if sess := b.Controller.ActiveSession(); sess != nil && sess.Status == game.StatusOver {
		if winner := sess.Player(sess.Winner); winner != nil {
			resp["win"] = b.Controller.Strategy().WinMessage(sess, winner, game.TurnResult{Action: game.ActionWinMatch})
		}
	}
	c.JSON(http.StatusOK, resp)
}

