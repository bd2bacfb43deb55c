// Package workflow implements the conversational routing workflow.
//
// A user question is rewritten for clarity, classified into an operating
// procedure, and dispatched to exactly one responder: internal Q&A,
// external fact finding, or a fallback clarification agent. Stages run
// strictly sequentially; each stage's input transcript depends on the
// previous stage's output.
//
// Information Hiding:
// - Provider construction per agent configuration
// - Transcript accumulation between stages

package workflow

import (
	"context"
	"fmt"

	"github.com/richinex/switchboard/agent"
	"github.com/richinex/switchboard/llm"
	"github.com/richinex/switchboard/transcript"
)

// Result is the externally visible outcome of one request.
type Result struct {
	FinalAnswer string `json:"final_answer"`
	Path        string `json:"path"`
}

// Options configures workflow construction.
type Options struct {
	// Provider selects the LLM provider backing all stages
	// (openai, anthropic, deepseek, gemini). Defaults to openai.
	Provider string

	// Model overrides the model for every stage. When empty, OpenAI
	// stages keep their per-agent models and other providers use their
	// default model.
	Model string

	// HistoryWindow bounds how many prior turns are retained when
	// building the transcript. Defaults to transcript.DefaultWindow.
	HistoryWindow int

	// MaxTokens and Temperature apply to agents without their own
	// generation settings. Zero values fall back to provider defaults.
	MaxTokens   uint32
	Temperature float32
}

// stage pairs an agent configuration with the provider it runs on.
type stage struct {
	cfg      agent.Config
	provider llm.Provider
}

// Workflow is the routing state machine. A Workflow value is immutable
// after construction and safe for concurrent use; all per-request state
// lives in the transcript built inside Run.
type Workflow struct {
	window      int
	rewrite     stage
	classify    stage
	internalQA  stage
	factFinding stage
	fallback    stage
}

// New creates a workflow backed by the configured provider, reading the
// provider API key from the environment. A missing key is a
// configuration error: the caller should refuse to serve requests.
func New(opts Options) (*Workflow, error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "openai"
	}
	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, err
	}

	w := &Workflow{window: opts.HistoryWindow}
	for _, s := range []struct {
		dst *stage
		cfg agent.Config
	}{
		{&w.rewrite, queryRewriteAgent},
		{&w.classify, classifyAgent},
		{&w.internalQA, internalQAAgent},
		{&w.factFinding, externalFactFindingAgent},
		{&w.fallback, fallbackAgent},
	} {
		provider, err := buildProvider(providerType, s.cfg, opts)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", s.cfg.Name, err)
		}
		*s.dst = stage{cfg: s.cfg, provider: provider}
	}

	return w, nil
}

// NewWithProvider creates a workflow where every stage runs on the given
// provider. Used by tests and embedders that manage providers themselves.
func NewWithProvider(provider llm.Provider, opts Options) *Workflow {
	return &Workflow{
		window:      opts.HistoryWindow,
		rewrite:     stage{cfg: queryRewriteAgent, provider: provider},
		classify:    stage{cfg: classifyAgent, provider: provider},
		internalQA:  stage{cfg: internalQAAgent, provider: provider},
		factFinding: stage{cfg: externalFactFindingAgent, provider: provider},
		fallback:    stage{cfg: fallbackAgent, provider: provider},
	}
}

// buildProvider constructs the provider for one agent configuration.
// An explicit Options.Model wins for every stage. Otherwise agent model
// identifiers are OpenAI names, so other providers use their own
// default model instead.
func buildProvider(providerType llm.ProviderType, cfg agent.Config, opts Options) (llm.Provider, error) {
	builder := llm.NewProviderBuilder(providerType)

	switch {
	case opts.Model != "":
		builder.Model(opts.Model)
	case providerType == llm.ProviderOpenAI:
		builder.Model(cfg.Model)
	}

	maxTokens := opts.MaxTokens
	temperature := opts.Temperature
	if cfg.Settings != nil {
		maxTokens = cfg.Settings.MaxTokens
		temperature = cfg.Settings.Temperature
	}
	if maxTokens > 0 {
		builder.MaxTokens(maxTokens)
	}
	if temperature > 0 || cfg.Settings != nil {
		builder.Temperature(temperature)
	}

	return builder.FromEnv()
}

// Run executes the workflow for one request: rewrite, classify, then
// exactly one responder stage over the accumulated transcript. Any stage
// failure aborts the remaining pipeline immediately; no partial answer
// is returned.
func (w *Workflow) Run(ctx context.Context, inputText string, history []transcript.Turn) (Result, error) {
	items := transcript.Build(history, inputText, w.window)

	// Rewrite: clarify the raw question.
	rewriteResult, err := runStage(ctx, w.rewrite.provider, w.rewrite.cfg, items,
		fmt.Sprintf("Original question: %s", inputText))
	if err != nil {
		return Result{}, err
	}
	items = append(items, rewriteResult.NewItems...)

	// Classify: pick the operating procedure for the rewritten question.
	classifyResult, err := runStage(ctx, w.classify.provider, w.classify.cfg, items,
		fmt.Sprintf("Question: %s", rewriteResult.OutputText))
	if err != nil {
		return Result{}, err
	}
	items = append(items, classifyResult.NewItems...)

	// Branch: a missing operating_procedure field parses to the empty
	// string and routes to the fallback responder.
	procedure := ParseProcedure(classifyResult.Parsed["operating_procedure"])

	responder := w.responderFor(procedure)
	responderResult, err := runStage(ctx, responder.provider, responder.cfg, items, "")
	if err != nil {
		return Result{}, err
	}

	return Result{
		FinalAnswer: responderResult.OutputText,
		Path:        procedure.Path(),
	}, nil
}

// responderFor selects the terminal stage for a procedure.
func (w *Workflow) responderFor(p Procedure) stage {
	switch p {
	case ProcedureQA:
		return w.internalQA
	case ProcedureFactFinding:
		return w.factFinding
	default:
		return w.fallback
	}
}
