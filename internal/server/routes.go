package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"dartscorer/internal/analytics"
	"dartscorer/internal/boards"
	"dartscorer/internal/config"
	"dartscorer/internal/db"
	"dartscorer/internal/metrics"
	"dartscorer/internal/players"
)

func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.handleHealth)
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(s.Gatherer)))
	}

	api := r.Group("/api")
	api.GET("/modes", s.handleModes)
	api.GET("/presets", s.handlePresets)

	api.GET("/players", s.handleListPlayers)
	api.POST("/players", s.handleCreatePlayer)
	api.GET("/players/:id", s.handleGetPlayer)
	api.DELETE("/players/:id", s.handleDeletePlayer)

	api.GET("/boards", s.handleListBoards)
	api.POST("/boards", s.handleCreateBoard)
	board := api.Group("/boards/:code")
	board.GET("", s.handleGetBoard)
	board.DELETE("", s.handleDeleteBoard)
	board.POST("/session", s.handleStartSession)
	board.GET("/session", s.handleGetSession)
	board.POST("/rematch", s.handleRematch)
	board.POST("/throw", s.handleThrow)
	board.POST("/undo", s.handleUndo)
	board.GET("/results", s.handleResults)
	board.GET("/events", s.handleEvents)
	board.GET("/ws", s.handleWS)

	stats := api.Group("/analytics")
	stats.GET("/players/:id", s.handlePlayerStats)
	stats.GET("/leaderboard", s.handleLeaderboard)
	stats.GET("/games", s.handleRecentGames)
	stats.GET("/games/:id", s.handleGameRecap)

	return r
}

// openDB picks Postgres when DATABASE_URL is set, otherwise SQLite when a
// path is configured. A nil DB means persistence is off.
func openDB(cfg config.Config) *db.DB {
	var (
		database *db.DB
		err      error
	)
	switch {
	case cfg.DatabaseURL != "":
		database, err = db.Connect(cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		database, err = db.OpenSQLite(cfg.SQLitePath)
	default:
		log.Info().Msg("no database configured, running without persistence")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("database connect failed, running without persistence")
		return nil
	}
	if err := database.Migrate(); err != nil {
		log.Error().Err(err).Msg("migration failed, running without persistence")
		database.Close()
		return nil
	}
	log.Info().Str("dialect", string(database.Dialect())).Msg("database connected and migrations applied")
	return database
}

// Run serves the API until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := boards.Deps{
		Engine:  cfg.Engine(),
		Logger:  log.Logger,
		Metrics: m,
	}
	srv := &Server{
		Players:  players.NewStore(),
		Presets:  presets,
		Gatherer: reg,
	}

	if database := openDB(cfg); database != nil {
		defer database.Close()
		queue := NewThrowQueue(m.ThrowDropped)
		queueCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			queue.Run(queueCtx, database)
		}()
		// flush pending throws before the database closes
		defer func() {
			stop()
			<-done
		}()
		deps.Sink = analytics.NewArchive(database)
		deps.Recorder = queue
		srv.DB = database
		srv.Queries = analytics.NewQueries(database)
	}

	srv.Boards = boards.NewStore(deps)
	go srv.Boards.RunSweeper(ctx, boards.SweepInterval)
	if b, err := srv.Boards.Create("Default"); err == nil {
		log.Info().Str("board", b.Code).Msg("default board ready")
	}

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           NewRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("server listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
