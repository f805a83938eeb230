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

	"github.com/joho/godotenv"

	"github.com/saharanepal/saharabot/internal/config"
	"github.com/saharanepal/saharabot/internal/handler"
	"github.com/saharanepal/saharabot/internal/handler/chatbot"
	"github.com/saharanepal/saharabot/internal/model/directory"
	"github.com/saharanepal/saharabot/internal/ollama"
	"github.com/saharanepal/saharabot/internal/service/ai"
	chatService "github.com/saharanepal/saharabot/internal/service/chat"
	"github.com/saharanepal/saharabot/internal/service/respond"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dirStore := directory.NewMemoryStore(directory.Seed())
	responder := respond.NewResponder(dirStore)

	// A broken generation setup is not fatal: the chat surface keeps working
	// on the fallback responder alone.
	var generator chatService.Generator
	var backend chatbot.Pinger
	aiService, err := ai.NewService(ctx, dirStore, cfg.AI)
	if err != nil {
		log.Printf("warning: failed to initialize AI service: %v", err)
		log.Println("continuing with fallback responses only")
	} else {
		generator = aiService
		if client, ok := aiService.GetChatModel().(*ollama.Client); ok {
			backend = client
		}
		log.Println("AI service initialized successfully")
	}

	chatSvc := chatService.NewService(generator, responder)
	router := handler.NewRouter(chatSvc, dirStore, backend)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SaharaBot backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
