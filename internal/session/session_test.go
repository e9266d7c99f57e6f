package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/csv-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/session/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

const testData = "name,age\nAlice,30\n"

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stdin closed unexpectedly")
}

func TestSession_Run_SentinelStopsWithoutCompletion(t *testing.T) {
	inputs := []string{"quit\n", "QUIT\n", " Quit \n", "\tqUiT", "quit\r\n"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// No expectations: any call fails the test.
			builder := mocks.NewMockPromptBuilder(ctrl)
			completer := mocks.NewMockCompleter(ctrl)

			var out bytes.Buffer
			s := New(testData, builder, completer, newTestLogger())

			if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
				t.Fatalf("expected clean exit, got %v", err)
			}
			if got := strings.Count(out.String(), Banner); got != 1 {
				t.Errorf("expected exactly one banner, got %d", got)
			}
			if out.String() != Banner {
				t.Errorf("expected only the banner on stdout, got %q", out.String())
			}
		})
	}
}

func TestSession_Run_AnswersQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	var submitted string
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p string) (string, error) {
			submitted = p
			return "Alice is 30 years old.", nil
		})

	var out bytes.Buffer
	s := New(testData, prompt.NewBuilder(), completer, newTestLogger())

	input := "How old is Alice?\nquit\n"
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(submitted, "Alice,30") {
		t.Errorf("expected prompt to contain CSV row, got %q", submitted)
	}
	if !strings.Contains(submitted, "How old is Alice?") {
		t.Errorf("expected prompt to contain question, got %q", submitted)
	}

	want := Banner + "Alice is 30 years old.\n" + Banner
	if out.String() != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", out.String(), want)
	}
}

func TestSession_Run_TrimsQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	builder := mocks.NewMockPromptBuilder(ctrl)
	completer := mocks.NewMockCompleter(ctrl)

	gomock.InOrder(
		builder.EXPECT().Build("Who is oldest?", testData).Return("rendered", nil),
		completer.EXPECT().Complete(gomock.Any(), "rendered").Return("Bob", nil),
	)

	var out bytes.Buffer
	s := New(testData, builder, completer, newTestLogger())

	if err := s.Run(context.Background(), strings.NewReader("   Who is oldest?  \r\nquit\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSession_Run_CompletionErrorStopsLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	backendErr := errors.New("bedrock service unavailable")
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", backendErr).Times(1)

	var out bytes.Buffer
	s := New(testData, prompt.NewBuilder(), completer, newTestLogger())

	err := s.Run(context.Background(), strings.NewReader("How old is Alice?\nWho is Bob?\nquit\n"), &out)
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got := strings.Count(out.String(), Banner); got != 1 {
		t.Errorf("expected no banner after the failure, got %d banners", got)
	}
}

func TestSession_Run_ContinueOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)

	gomock.InOrder(
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("throttled")),
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("Bob is 41.", nil),
	)

	var out bytes.Buffer
	s := New(testData, prompt.NewBuilder(), completer, newTestLogger(), WithContinueOnError(true))

	if err := s.Run(context.Background(), strings.NewReader("first\nsecond\nquit\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Error: throttled\n") {
		t.Errorf("expected error line in output, got %q", got)
	}
	if !strings.Contains(got, "Bob is 41.\n") {
		t.Errorf("expected second answer in output, got %q", got)
	}
	if n := strings.Count(got, Banner); n != 3 {
		t.Errorf("expected 3 banners, got %d", n)
	}
}

func TestSession_Run_BuildErrorStopsLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	builder := mocks.NewMockPromptBuilder(ctrl)
	completer := mocks.NewMockCompleter(ctrl)

	builder.EXPECT().Build(gomock.Any(), gomock.Any()).Return("", errors.New("bad template"))

	s := New(testData, builder, completer, newTestLogger())

	err := s.Run(context.Background(), strings.NewReader("question\n"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "failed to build prompt") {
		t.Fatalf("expected build error, got %v", err)
	}
}

func TestSession_Run_EndOfInput(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := New(testData, mocks.NewMockPromptBuilder(ctrl), mocks.NewMockCompleter(ctrl), newTestLogger())

		var out bytes.Buffer
		if err := s.Run(context.Background(), strings.NewReader(""), &out); err != nil {
			t.Fatalf("expected clean exit on EOF, got %v", err)
		}
		if out.String() != Banner {
			t.Errorf("expected a single banner, got %q", out.String())
		}
	})

	t.Run("last line without newline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		completer := mocks.NewMockCompleter(ctrl)
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("two rows", nil)

		s := New(testData, prompt.NewBuilder(), completer, newTestLogger())

		var out bytes.Buffer
		if err := s.Run(context.Background(), strings.NewReader("how many rows?"), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Banner + "two rows\n" + Banner
		if out.String() != want {
			t.Errorf("unexpected output:\n got %q\nwant %q", out.String(), want)
		}
	})
}

func TestSession_Run_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(testData, mocks.NewMockPromptBuilder(ctrl), mocks.NewMockCompleter(ctrl), newTestLogger(), WithContinueOnError(true))

	err := s.Run(context.Background(), failingReader{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "failed to read input") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSession_Run_EmptyCompletionPrinted(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", nil)

	s := New(testData, prompt.NewBuilder(), completer, newTestLogger())

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader("anything?\nquit\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Banner + "\n" + Banner
	if out.String() != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", out.String(), want)
	}
}

func TestSession_Run_CancelWhileAwaitingInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(testData, mocks.NewMockPromptBuilder(ctrl), mocks.NewMockCompleter(ctrl), newTestLogger(), WithContinueOnError(true))

	// Nothing is ever written to the pipe, so the read blocks until cancelled.
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr, &out)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}

	if out.String() != Banner {
		t.Errorf("expected a single banner, got %q", out.String())
	}
}

func TestSession_Run_AlreadyCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(testData, mocks.NewMockPromptBuilder(ctrl), mocks.NewMockCompleter(ctrl), newTestLogger())

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx, pr, &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSession_Answer(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("30", nil)

	s := New(testData, prompt.NewBuilder(), completer, newTestLogger())

	resp, err := s.Answer(context.Background(), "How old is Alice?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "30" {
		t.Errorf("expected answer '30', got %q", resp.Answer)
	}
	if resp.Question != "How old is Alice?" {
		t.Errorf("expected question echoed, got %q", resp.Question)
	}
	if resp.RequestID == "" {
		t.Error("expected a request id")
	}
}
