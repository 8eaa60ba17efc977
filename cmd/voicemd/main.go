// Command voicemd runs the voice health-assistant backend.
//
// The server accepts speech or text plus optional images at POST /api,
// pipes them through transcription, completion, and speech synthesis,
// and streams the spoken reply back to the browser. GET /api serves the
// call log for the admin dashboard.
//
// Environment variables:
//
//	GROQ_API_KEY       - transcription and completion (required)
//	CARTESIA_API_KEY   - speech synthesis (required)
//	PORT               - HTTP listen port (default 8080)
//	LOG_LEVEL          - debug, info, warn, error (default info)
//	REDIS_ADDR         - optional Redis call log backend (host:port)
//	CALL_TIMEOUT       - per-call timeout (default 30s)
//	CALL_LOG_CAPACITY  - retained call records (default 1000)
//
// A .env file in the working directory is loaded if present.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/voicemd/voicemd/internal/config"
	"github.com/voicemd/voicemd/internal/log"
	"github.com/voicemd/voicemd/pkg/assistant"
	"github.com/voicemd/voicemd/pkg/calllog"
	"github.com/voicemd/voicemd/pkg/llm"
	"github.com/voicemd/voicemd/pkg/stt"
	"github.com/voicemd/voicemd/pkg/tts"
	"github.com/voicemd/voicemd/pkg/web"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("configuration error", "error", err)
	}

	log.Init(cfg.LogLevel)
	logger := log.L()

	transcriber, err := stt.NewGroq(
		stt.WithAPIKey(cfg.GroqAPIKey),
		stt.WithTimeout(cfg.CallTimeout),
		stt.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("transcription client", "error", err)
	}

	completer, err := llm.NewGroq(
		llm.WithAPIKey(cfg.GroqAPIKey),
		llm.WithTimeout(cfg.CallTimeout),
		llm.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("completion client", "error", err)
	}

	synthesizer, err := tts.NewCartesia(
		tts.WithAPIKey(cfg.CartesiaAPIKey),
		tts.WithTimeout(cfg.CallTimeout),
		tts.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("synthesis client", "error", err)
	}
	defer synthesizer.Close()

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("call log store", "error", err)
	}

	pipeline := assistant.New(transcriber, completer, synthesizer, store, logger)
	server := web.NewServer(cfg.Port, pipeline, store, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// newStore selects the call log backend: Redis when configured,
// otherwise the bounded in-memory store.
func newStore(cfg *config.Config) (calllog.Store, error) {
	if cfg.RedisAddr == "" {
		return calllog.NewMemory(cfg.CallLogCapacity), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("using Redis call log", "addr", cfg.RedisAddr)
	return calllog.NewRedis(client, cfg.CallLogCapacity), nil
}
