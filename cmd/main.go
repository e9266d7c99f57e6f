package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := setup.LoadConfig()

	file := flag.String("file", cfg.CSVFile, "CSV file to load")
	provider := flag.String("provider", cfg.DefaultProvider, "LLM provider: 'bedrock', 'openai' or 'gemini'")
	continueOnError := flag.Bool("continue-on-error", cfg.ContinueOnError, "Keep asking after a failed question")
	flag.Parse()

	cfg.CSVFile = *file
	cfg.DefaultProvider = *provider
	cfg.ContinueOnError = *continueOnError

	// Setup logging; stdout is reserved for the conversation
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(os.Stderr, cfg.LogLevel)

	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	// After the first signal a second one kills the process the default way
	context.AfterFunc(ctx, cancel)

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	if err := deps.Session.Run(ctx, os.Stdin, os.Stdout); err != nil {
		deps.Close()
		log.Fatal().Err(err).Msg("Session ended with error")
	}
}
