package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/models"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks

const (
	Banner   = "Enter your prompt (or 'quit' to exit): "
	Sentinel = "quit"
)

// PromptBuilder renders the prompt for one question
type PromptBuilder interface {
	Build(question string, data string) (string, error)
}

// Completer submits a rendered prompt and waits for the completion
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Session answers questions about one CSV dataset. The data is loaded once
// and never modified.
type Session struct {
	data            string
	builder         PromptBuilder
	completer       Completer
	continueOnError bool
	logger          *zerolog.Logger
}

type Option func(*Session)

// WithContinueOnError keeps the loop running after a failed question instead
// of returning the error.
func WithContinueOnError(enabled bool) Option {
	return func(s *Session) {
		s.continueOnError = enabled
	}
}

func New(data string, builder PromptBuilder, completer Completer, logger *zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		data:      data,
		builder:   builder,
		completer: completer,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer builds the prompt for question and returns the model's completion.
func (s *Session) Answer(ctx context.Context, question string) (models.AskResponse, error) {
	now := time.Now()
	result := models.AskResponse{
		RequestID: uuid.New().String(),
		Question:  question,
	}

	s.logger.Info().
		Str("request_id", result.RequestID).
		Int("question_len", len(question)).
		Msg("answering question")

	prompt, err := s.builder.Build(question, s.data)
	if err != nil {
		return result, fmt.Errorf("failed to build prompt: %w", err)
	}

	completion, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", result.RequestID).
			Msg("LLM call failed")
		return result, err
	}

	result.Answer = completion
	result.Duration = time.Since(now)

	s.logger.Info().
		Str("request_id", result.RequestID).
		Dur("duration", result.Duration).
		Msg("question answered")

	return result, nil
}

type readResult struct {
	line string
	err  error
}

// readLine reads the next line from reader, giving up when ctx is done. The
// pending read is left behind on cancellation, so reader must not be used
// again afterwards.
func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	result := make(chan readResult, 1)
	go func() {
		line, err := reader.ReadString('\n')
		result <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-result:
		return r.line, r.err
	}
}

// Run drives the interactive loop: print the banner, read one line, stop on
// the quit sentinel or end of input, otherwise answer and print. The first
// failure ends the loop unless WithContinueOnError was given; input errors
// and cancellation of ctx always end it.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)

	for {
		if _, err := writer.WriteString(Banner); err != nil {
			return fmt.Errorf("failed to write prompt banner: %w", err)
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}

		line, err := readLine(ctx, reader)
		if ctx.Err() != nil {
			s.logger.Info().Msg("session cancelled while awaiting input")
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			s.logger.Info().Msg("input closed, ending session")
			return nil
		}

		query := strings.TrimSpace(line)
		if strings.EqualFold(query, Sentinel) {
			s.logger.Info().Msg("quit requested, ending session")
			return nil
		}

		answer, err := s.Answer(ctx, query)
		if err != nil {
			if !s.continueOnError || ctx.Err() != nil {
				return err
			}
			if _, werr := fmt.Fprintf(writer, "Error: %v\n", err); werr != nil {
				return fmt.Errorf("failed to write error: %w", werr)
			}
		} else if _, err := fmt.Fprintln(writer, answer.Answer); err != nil {
			return fmt.Errorf("failed to write answer: %w", err)
		}

		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}
	}
}
