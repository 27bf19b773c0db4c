package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openquest/gm-api/internal/clients/llm"
	"github.com/openquest/gm-api/internal/config"
	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/handlers/api"
	chatorch "github.com/openquest/gm-api/internal/orchestrators/chat"
	combatorch "github.com/openquest/gm-api/internal/orchestrators/combat"
	itemorch "github.com/openquest/gm-api/internal/orchestrators/item"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/pkg/idgen"
	"github.com/openquest/gm-api/internal/redis"
	"github.com/openquest/gm-api/internal/repositories/action"
	characterrepo "github.com/openquest/gm-api/internal/repositories/character"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the GM API HTTP server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides SERVER_ADDR)")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local convenience only; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serverAddr != "" {
		cfg.ServerAddr = serverAddr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	redisClient, err := redis.NewClient(cfg.RedisEndpoint, &redis.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	characterRepo, err := characterrepo.NewRedisRepository(&characterrepo.Config{
		Client: redisClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create character repository: %w", err)
	}

	actionRepo, err := action.NewRedisRepository(&action.Config{
		Client: redisClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create action repository: %w", err)
	}

	itemRepo, err := itemrepo.NewMemoryRepository(nil)
	if err != nil {
		return fmt.Errorf("failed to create item repository: %w", err)
	}

	characterService, err := charactersvc.NewService(&charactersvc.Config{
		Repository:     characterRepo,
		ItemRepository: itemRepo,
		IDGenerator:    idgen.NewUUID("item"),
	})
	if err != nil {
		return fmt.Errorf("failed to create character service: %w", err)
	}

	roller := dice.NewRandomRoller()

	pipe, err := pipeline.New(&pipeline.Config{
		ActionRepository: actionRepo,
		CharacterService: characterService,
		Roller:           roller,
		IDGenerator:      idgen.NewUUID("act"),
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create action pipeline: %w", err)
	}

	llmClient, err := llm.NewOpenAIClient(&llm.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	chatOrchestrator, err := chatorch.New(&chatorch.Config{
		LLMClient:        llmClient,
		Pipeline:         pipe,
		CharacterService: characterService,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat orchestrator: %w", err)
	}

	combatOrchestrator, err := combatorch.New(&combatorch.Config{
		Pipeline:         pipe,
		CharacterService: characterService,
		ItemRepository:   itemRepo,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create combat orchestrator: %w", err)
	}

	itemOrchestrator, err := itemorch.New(&itemorch.Config{
		Pipeline:         pipe,
		CharacterService: characterService,
		ItemRepository:   itemRepo,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create item orchestrator: %w", err)
	}

	handler, err := api.New(&api.Config{
		CharacterService: characterService,
		ChatOrchestrator: chatOrchestrator,
		CombatService:    combatOrchestrator,
		ItemService:      itemOrchestrator,
		ActionRepository: actionRepo,
		Roller:           roller,
	})
	if err != nil {
		return fmt.Errorf("failed to create api handler: %w", err)
	}

	reaper, err := pipeline.NewReaper(&pipeline.ReaperConfig{
		ActionRepository: actionRepo,
		Logger:           logger,
		Timeout:          cfg.ActionTimeout,
		Interval:         cfg.ReapInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create reaper: %w", err)
	}
	go reaper.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed, closing", "error", err)
			_ = srv.Close()
		}
		return nil
	case err := <-errChan:
		return err
	}
}
