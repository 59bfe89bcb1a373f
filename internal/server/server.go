// Package server exposes a running simulation to observers: JSON snapshots
// over HTTP and a live feed of entity updates over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/persistence"
)

// StateSource is the read side of a simulation.
type StateSource interface {
	GameID() string
	Snapshot() game.Snapshot
	EntitySummary(h core.Handle) (any, error)
}

// BattleSource serves recorded battles. It is optional.
type BattleSource interface {
	RecentBattles(ctx context.Context, gameID string, limit int) ([]persistence.BattleRecord, error)
}

// Controller is implemented by sources the host may pause and resume.
type Controller interface {
	Pause() error
	Resume() error
}

// Config holds the server settings.
type Config struct {
	Host string
	Port int
}

// Server is the observer HTTP server.
type Server struct {
	config  Config
	httpSrv *http.Server
	hub     *Hub
	logger  zerolog.Logger
}

// NewServer builds the server. battles may be nil.
func NewServer(cfg Config, state StateSource, battles BattleSource, hub *Hub, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "ObserverServer").Logger()
	return &Server{
		config: cfg,
		httpSrv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           NewRouter(state, battles, hub, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		hub:    hub,
		logger: logger,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpSrv.Addr).Msg("Observer server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("observer server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for open ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down observer server")
	return s.httpSrv.Shutdown(ctx)
}

// NewRouter wires the observer routes.
func NewRouter(state StateSource, battles BattleSource, hub *Hub, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", healthHandler(state, hub))
	api := r.Group("/api")
	api.GET("/state", stateHandler(state))
	api.GET("/entities/:handle", entityHandler(state))
	if battles != nil {
		api.GET("/battles", battlesHandler(state, battles))
	}
	if ctl, ok := state.(Controller); ok {
		api.POST("/pause", controlHandler(ctl.Pause))
		api.POST("/resume", controlHandler(ctl.Resume))
	}
	if hub != nil {
		r.GET("/ws", func(c *gin.Context) { hub.Serve(c.Writer, c.Request) })
	}
	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request served")
	}
}

func healthHandler(state StateSource, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		clients := 0
		if hub != nil {
			clients = hub.Clients()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"gameId":  state.GameID(),
			"clients": clients,
		})
	}
}

func stateHandler(state StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, state.Snapshot())
	}
}

func entityHandler(state StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("handle"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "handle must be a positive integer"})
			return
		}
		summary, err := state.EntitySummary(core.Handle(id))
		if errors.Is(err, core.ErrUnknownEntity) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func battlesHandler(state StateSource, battles BattleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		records, err := battles.RecentBattles(c.Request.Context(), state.GameID(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"battles": records})
	}
}

func controlHandler(apply func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := apply(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
