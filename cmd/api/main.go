package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/prepdesk/sales-prep/api/internal/agent"
	"github.com/prepdesk/sales-prep/api/internal/auth"
	"github.com/prepdesk/sales-prep/api/internal/config"
	"github.com/prepdesk/sales-prep/api/internal/database"
	"github.com/prepdesk/sales-prep/api/internal/handler"
	middlewarepkg "github.com/prepdesk/sales-prep/api/internal/middleware"
	"github.com/prepdesk/sales-prep/api/internal/repository"
	"github.com/prepdesk/sales-prep/api/internal/router"
	"github.com/prepdesk/sales-prep/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	profilesRepo := repository.NewPGXProfilesRepository(pool)
	cacheRepo := repository.NewPGXCacheRepository(pool)
	prepsRepo := repository.NewPGXPrepsRepository(pool)

	backend, err := agentBackend(cfg)
	if err != nil {
		log.Fatalf("failed to build agent backend: %v", err)
	}

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	profileService := service.NewProfileService(profilesRepo)
	dashboardService := service.NewDashboardService(prepsRepo, cacheRepo)
	prepService := service.NewPrepService(prepsRepo, cacheRepo, profilesRepo,
		backend, agent.NewRetrier(), service.NewReportBuilder(backend), service.NewContactCleaner("US"))

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserAdminHandler(userService),
		Preps:     handler.NewPrepHandler(prepService, dashboardService),
		Profile:   handler.NewProfileHandler(profileService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Cache:     handler.NewCacheAdminHandler(dashboardService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

type researchSynthesizer interface {
	agent.Researcher
	agent.Synthesizer
}

// agentBackend selects how research and synthesis run. With AGENT_BASE_URL
// set the API calls the agent runtime service; otherwise it talks to the LLM
// provider directly.
func agentBackend(cfg *config.Config) (researchSynthesizer, error) {
	if cfg.AgentBaseURL != "" {
		return agent.NewRuntimeClient(nil, cfg.AgentBaseURL, cfg.AgentTimeout)
	}
	return agent.NewLLMAgent(cfg.LLMModel)
}
