package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/infrastructure/providers"
	api "github.com/felixgeelhaar/maitre/interfaces/api"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	utterance  string
	timeout    time.Duration
	verbose    bool
	jsonOutput bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [request]",
		Short: "Run a reservation request",
		Long: `Run a reservation request through the orchestration engine.

The engine classifies the request, gathers any missing details by
asking follow-up questions, searches and ranks venues, and books the
selected one, escalating to a voice call when online booking is
unavailable. Whenever the engine needs input it prompts on stdin.

Examples:
  # Run with a config file and request as argument
  maitre run -c config.yaml "table for 2 tomorrow at 8pm near downtown"

  # Run with a timeout
  maitre run -c config.yaml --timeout 5m "book a pizzeria"

  # Emit the final task as JSON
  maitre run -c config.yaml --json "sushi for four on friday"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.utterance = args[0]
			}
			return a.runTask(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Overall run timeout")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the final task as JSON")

	return cmd
}

// runTask executes a reservation request with the given options.
func (a *App) runTask(ctx context.Context, opts *runOptions) error {
	if opts.utterance == "" {
		return fmt.Errorf("no request specified (pass it as an argument)")
	}

	config := api.DefaultConfig()
	if opts.configPath != "" {
		loader := api.NewConfigLoader()
		loaded, err := loader.LoadFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		config = loaded
	}

	result, err := api.NewRuntimeBuilder(config).Build()
	if err != nil {
		return fmt.Errorf("failed to build runtime: %w", err)
	}
	defer result.Close()

	if opts.verbose {
		fmt.Fprintf(a.stdout, "Configuration loaded: %s v%s\n", config.Name, config.Version)
		fmt.Fprintf(a.stdout, "Max iterations: %d\n", config.Engine.MaxIterations)
		fmt.Fprintf(a.stdout, "Storage backend: %s\n\n", config.Storage.Backend)
	}

	// Demo providers traverse the full flow with canned data. In a real
	// deployment these come from the embedder (LLM inference, a places
	// API, a booking platform, a voice gateway).
	inference, search, availability, booking, voice := demoProviders()

	engine, err := api.NewWithOptions(
		inference, search, availability, booking, voice,
		append(result.EngineOptions, api.WithCalendar(providers.NewMemoryCalendar()))...,
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	start := time.Now()
	t, err := engine.Start(ctx, opts.utterance)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	// Interactive resume loop: whenever the task suspends, show the
	// engine's question, read the diner's answer, and feed it back in.
	scanner := bufio.NewScanner(a.stdin)
	for t.IsSuspended() {
		fmt.Fprintf(a.stdout, "\n%s\n> ", t.LastMessage().Content)
		if !scanner.Scan() {
			return fmt.Errorf("input closed while task was waiting")
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		t, err = engine.Resume(ctx, t, input)
		if err != nil {
			return fmt.Errorf("resume failed: %w", err)
		}
	}
	duration := time.Since(start)

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	fmt.Fprintf(a.stdout, "\n%s\n\n", t.LastMessage().Content)
	fmt.Fprintf(a.stdout, "Task finished\n")
	fmt.Fprintf(a.stdout, "  Task ID: %s\n", t.ID)
	fmt.Fprintf(a.stdout, "  Status: %s\n", t.Status)
	fmt.Fprintf(a.stdout, "  Outcome: %s\n", t.BookingOutcome)
	fmt.Fprintf(a.stdout, "  Duration: %s\n", duration)

	if t.Confirmation != nil {
		fmt.Fprintf(a.stdout, "  Venue: %s (%s)\n", t.Confirmation.Venue, t.Confirmation.Channel)
		if t.Confirmation.Reference != "" {
			fmt.Fprintf(a.stdout, "  Reference: %s\n", t.Confirmation.Reference)
		}
	}
	if t.Failure != "" {
		fmt.Fprintf(a.stdout, "  Failure: %s\n", t.Failure)
	}

	return nil
}

// demoProviders builds a provider set backed by canned data so the flow
// can be exercised end to end without external services.
func demoProviders() (provider.Inference, provider.SearchProvider, provider.AvailabilityProvider, provider.BookingProvider, provider.VoiceProvider) {
	inference := providers.NewScriptedInference(
		providers.InferenceStep{
			ExpectInstruction: "Classify",
			Response:          json.RawMessage(`{"kind":"search_and_book","confidence":0.95}`),
		},
		providers.InferenceStep{
			ExpectInstruction: "Extract",
			Response: json.RawMessage(`{
				"query":"italian","location":"downtown",
				"date":"2026-09-01","time":"19:30","party_size":2
			}`),
		},
		providers.InferenceStep{
			ExpectInstruction: "Rank",
			Response: json.RawMessage(`{"top":[
				{"id":"r1","score":0.92,"rationale":"Highly rated and bookable online"},
				{"id":"r2","score":0.81,"rationale":"Close by with good reviews"},
				{"id":"r3","score":0.74,"rationale":"Solid fallback option"}
			]}`),
		},
	)

	search := providers.NewStaticSearch(
		task.Candidate{ID: "r1", Name: "Trattoria Roma", Address: "12 Via Nova", Rating: 4.7, ReviewCount: 820, Phone: "+1-555-0101", Website: "https://trattoria-roma.example"},
		task.Candidate{ID: "r2", Name: "Osteria Blu", Address: "44 Harbor St", Rating: 4.5, ReviewCount: 510, Phone: "+1-555-0102", Website: "https://osteria-blu.example"},
		task.Candidate{ID: "r3", Name: "Casa Pasta", Address: "7 Mill Lane", Rating: 4.3, ReviewCount: 340, Phone: "+1-555-0103"},
	)

	availability := providers.NewTableAvailability().
		Set("r1", provider.Availability{HasChannel: true, Available: true}).
		Set("r2", provider.Availability{HasChannel: true, Available: true}).
		Set("r3", provider.Availability{HasChannel: false})

	booking := providers.NewSettableBooking(provider.BookingResult{
		Success:     true,
		ReferenceID: "demo-booking-001",
		Message:     "confirmed",
	})

	voice := providers.NewSettableVoice(provider.VoiceResult{
		Success:    true,
		Confirmed:  true,
		Transcript: "Called the venue and confirmed the reservation.",
		Message:    "confirmed by phone",
	})

	return inference, search, availability, booking, voice
}
