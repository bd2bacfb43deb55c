// Command execution for CLI commands.
//
// Information Hiding:
// - Workflow setup hidden
// - Session persistence wiring hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/switchboard/config"
	"github.com/richinex/switchboard/server"
	"github.com/richinex/switchboard/storage"
	"github.com/richinex/switchboard/transcript"
	"github.com/richinex/switchboard/workflow"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	Verbose  bool
}

// newWorkflow builds the workflow from settings.
func newWorkflow(opts Options) (*workflow.Workflow, config.Settings, error) {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, config.Settings{}, err
	}

	w, err := workflow.New(workflow.Options{
		Provider:      settings.LLM.Provider,
		Model:         settings.LLM.Model,
		HistoryWindow: settings.Workflow.HistoryWindow,
		MaxTokens:     settings.LLM.MaxTokens,
		Temperature:   float32(settings.LLM.Temperature),
	})
	if err != nil {
		return nil, config.Settings{}, err
	}

	return w, settings, nil
}

// routeLabel renders a route path for terminal display.
func routeLabel(path string) string {
	return strings.ReplaceAll(path, "_", " ")
}

// Ask runs the workflow once for a single question and prints the answer.
func Ask(ctx context.Context, question string, opts Options) error {
	w, _, err := newWorkflow(opts)
	if err != nil {
		return err
	}

	result, err := w.Run(ctx, question, nil)
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Printf("route: %s\n", routeLabel(result.Path))
	}
	fmt.Printf("%s\n", result.FinalAnswer)
	return nil
}

// Chat starts an interactive chat session.
// When dbPath is non-empty the conversation is persisted per session and
// a missing sessionID gets a generated one; otherwise the conversation
// lives in memory for the life of the process.
func Chat(ctx context.Context, sessionID, dbPath string, opts Options) error {
	w, _, err := newWorkflow(opts)
	if err != nil {
		return err
	}

	store, sessionID, closeStore, err := openConversationStore(sessionID, dbPath)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}
	if dbPath != "" {
		fmt.Printf("Session: %s\n", sessionID)
	}

	// Load existing history
	history, err := store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) > 0 {
		fmt.Printf("Resuming session '%s' (%d turns)\n\n", sessionID, len(history))
	}

	fmt.Printf("Ask a question. Type 'exit' to quit, 'clear' to reset the conversation.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if input == "clear" {
			history = nil
			if err := store.Delete(ctx, sessionID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to clear session: %v\n", err)
			}
			fmt.Println("Conversation cleared.")
			continue
		}

		result, err := w.Run(ctx, input, history)
		if err != nil {
			// Failed exchanges are not added to history
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			continue
		}

		fmt.Printf("\nroute: %s\n%s\n\n", routeLabel(result.Path), result.FinalAnswer)

		history = append(history,
			transcript.Turn{Role: "user", Text: input},
			transcript.Turn{Role: "assistant", Text: result.FinalAnswer},
		)

		if err := store.Save(ctx, sessionID, history); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	return scanner.Err()
}

// openConversationStore picks the chat session backend: SQLite when a
// database path is given, in-memory otherwise. Returns the backing
// store, the effective session ID, and an optional close function.
func openConversationStore(sessionID, dbPath string) (storage.ConversationStorage, string, func() error, error) {
	if dbPath == "" {
		if sessionID == "" {
			sessionID = "default"
		}
		return storage.NewInMemoryStorage(), sessionID, nil, nil
	}

	s, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open database: %w", err)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return s, sessionID, s.Close, nil
}

// Serve runs the HTTP server until interrupted.
func Serve(ctx context.Context, opts Options) error {
	w, settings, err := newWorkflow(opts)
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	handler := server.NewHandler(w, logger)

	srv := &http.Server{
		Addr:         ":" + settings.Server.Port,
		Handler:      server.Router(handler, settings.Server.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"port", settings.Server.Port,
			"provider", settings.LLM.Provider,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
