package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gsearch/gateway/internal/api"
	"github.com/gsearch/gateway/internal/cache"
	"github.com/gsearch/gateway/internal/chat"
	"github.com/gsearch/gateway/internal/config"
	"github.com/gsearch/gateway/internal/gateway"
	"github.com/gsearch/gateway/internal/llm"
	"github.com/gsearch/gateway/internal/llm/gemini"
	"github.com/gsearch/gateway/internal/llm/openai"
	"github.com/gsearch/gateway/internal/logging"
	"github.com/gsearch/gateway/internal/search"
	"github.com/gsearch/gateway/internal/store"
	"github.com/gsearch/gateway/internal/upstream"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Path).
		Msg("Starting gsearch gateway")

	// The persisted store is the only startup-fatal resource.
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open persistent store")
	}

	// One pooled client per upstream endpoint.
	googleClient := upstream.New(cfg.Google.URL,
		upstream.WithMaxAttempts(cfg.Upstream.MaxAttempts),
		upstream.WithAttemptTimeout(cfg.Upstream.AttemptTimeout),
	)
	defer googleClient.Close()

	openaiClient := upstream.New(cfg.LLM.OpenAI.URL,
		upstream.WithMaxAttempts(cfg.Upstream.MaxAttempts),
		upstream.WithAttemptTimeout(cfg.Upstream.AttemptTimeout),
	)
	defer openaiClient.Close()

	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	llmRouter.RegisterProvider(openai.NewProvider(openaiClient, cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}
	log.Info().Strs("providers", llmRouter.ListProviders()).Str("default", llmRouter.DefaultProvider()).Msg("Chat providers registered")

	session, err := chat.NewSession(st, llmRouter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize chat session")
	}

	searchClient := search.New(googleClient, cfg.Google.Key, cfg.Google.CX, cfg.Google.Geo)
	subredditCache := cache.New(st, "/reddit/cache")
	bookmarks := gateway.NewBookmarks(st)

	queryRouter := gateway.NewRouter(searchClient, gateway.NewRedditResolver(subredditCache, session), bookmarks)
	dispatcher := gateway.NewDispatcher(session)

	router := api.NewRouter(cfg, api.Deps{
		Router:     queryRouter,
		Dispatcher: dispatcher,
		Search:     searchClient,
		Bookmarks:  bookmarks,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
