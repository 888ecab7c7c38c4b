// ABOUTME: Gin HTTP server exposing the tracker over a small JSON API.
// ABOUTME: Wires routes, request logging, bearer auth, and graceful shutdown.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/storage"
	"go.uber.org/zap"
)

// Server serves the JSON API backed by a Repository.
type Server struct {
	repo   storage.Repository
	secret string
	log    *zap.Logger
	engine *gin.Engine
}

// NewServer builds the router. secret verifies bearer tokens.
func NewServer(repo storage.Repository, secret string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		repo:   repo,
		secret: secret,
		log:    log,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.routes()
	return s
}

// Handler returns the http.Handler for the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": "jacktrack-api"})
	})

	api := r.Group("/api")
	api.Use(AuthMiddleware(s.secret))
	{
		api.GET("/me", s.getMe)

		api.GET("/ingredients", s.listIngredients)
		api.POST("/ingredients", s.createIngredient)
		api.GET("/ingredients/:id", s.getIngredient)
		api.PUT("/ingredients/:id", s.updateIngredient)
		api.DELETE("/ingredients/:id", s.deleteIngredient)

		api.GET("/meals", s.listMeals)
		api.POST("/meals", s.createMeal)
		api.GET("/meals/:id", s.getMeal)
		api.PUT("/meals/:id", s.updateMeal)
		api.DELETE("/meals/:id", s.deleteMeal)
		api.POST("/meals/:id/ingredients", s.addMealIngredient)
		api.PUT("/meals/:id/ingredients/:ingredientID", s.setMealIngredientQuantity)
		api.DELETE("/meals/:id/ingredients/:ingredientID", s.removeMealIngredient)
		api.GET("/meals/:id/totals", s.mealTotals)

		api.GET("/days", s.listDays)
		api.GET("/days/:date", s.getDay)
		api.PUT("/days/:date", s.updateDayMetrics)
		api.DELETE("/days/:date", s.deleteDay)
		api.POST("/days/:date/meals", s.attachMeal)
		api.PUT("/days/:date/meals/:mealID", s.updateServings)
		api.DELETE("/days/:date/meals/:mealID", s.detachMeal)
		api.GET("/days/:date/totals", s.dayTotals)

		api.GET("/workouts", s.listWorkouts)
		api.POST("/workouts", s.createWorkout)
		api.GET("/workouts/:id", s.getWorkout)
		api.DELETE("/workouts/:id", s.deleteWorkout)
		api.POST("/workouts/:id/exercises", s.addExercise)
		api.DELETE("/workouts/:id/exercises/:exerciseID", s.removeExercise)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestLogger logs one line per request with zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := currentUser(c); id != uuid.Nil {
			fields = append(fields, zap.String("user", id.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
