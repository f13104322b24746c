package fold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
)

// PromptBuilder renders the prompt for one window.
// *prompt.Builder satisfies it.
type PromptBuilder interface {
	Build(state, window string) (string, error)
}

// Result summarizes a run. On failure State and Windows reflect the last
// window whose state was recorded; Tokens still counts the failed window's
// call if it completed.
type Result struct {
	Windows int    `json:"windows"` // Windows folded successfully
	Tokens  int    `json:"tokens"`  // Total tokens reported by the client
	State   string `json:"state"`   // Final state
	Phase   Phase  `json:"phase"`   // PhaseDone or PhaseFailed

	// Usage splits Tokens into prompt and completion tokens.
	Usage provider.TokenUsage `json:"usage"`
}

// Folder folds windows into a state. A Folder holds no per-run state, so
// Run may be called repeatedly.
type Folder struct {
	client     provider.Client
	builder    PromptBuilder
	sink       Sink
	logger     *slog.Logger
	gen        provider.Generation
	model      string
	budget     *tokens.Budget
	budgetMode BudgetMode
	onStep     func(Step)
}

// New creates a Folder that completes prompts from builder with client.
func New(client provider.Client, builder PromptBuilder, opts ...Option) *Folder {
	f := &Folder{
		client:     client,
		builder:    builder,
		logger:     slog.Default(),
		gen:        provider.DefaultGeneration(),
		budgetMode: BudgetOff,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CompleteState sends prompt to the client and returns the answer with
// surrounding whitespace removed, plus the tokens the call consumed.
func (f *Folder) CompleteState(ctx context.Context, prompt string) (string, int, error) {
	state, usage, err := f.complete(ctx, prompt)
	return state, usage.Total(), err
}

func (f *Folder) complete(ctx context.Context, prompt string) (string, provider.TokenUsage, error) {
	req := provider.NewRequest(prompt, f.gen)
	req.Model = f.model

	resp, err := f.client.Complete(ctx, req)
	if err != nil {
		return "", provider.TokenUsage{}, fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	return strings.TrimSpace(resp.Content), resp.Usage, nil
}

// Run folds windows in order starting from initial.
// Zero windows make no calls and return initial unchanged.
// Errors are *Error values naming the failing window.
func (f *Folder) Run(ctx context.Context, windows []string, initial string) (*Result, error) {
	res := &Result{State: initial, Phase: PhaseIdle}

	f.logger.Info("starting fold",
		slog.Int("windows", len(windows)),
		slog.String("provider", f.client.Provider()))

	for i, window := range windows {
		res.Phase = PhaseFolding

		state, usage, err := f.step(ctx, i, res.State, window)
		if err != nil {
			res.Phase = PhaseFailed
			f.logger.Error("fold failed",
				slog.Int("window", i),
				slog.Int("windows_done", res.Windows),
				slog.Int("total_tokens", res.Tokens),
				slog.Any("error", err))
			return res, err
		}

		used := usage.Total()
		res.Tokens += used
		res.Usage.Add(usage)

		if f.sink != nil {
			if err := f.sink.Append(state); err != nil {
				res.Phase = PhaseFailed
				f.logger.Error("fold failed",
					slog.Int("window", i),
					slog.Int("windows_done", res.Windows),
					slog.Any("error", err))
				return res, &Error{Window: i, Op: OpAppend, Err: err}
			}
		}
		res.State = state
		res.Windows++

		f.logger.Debug("new state", slog.Int("window", i), slog.String("state", state))
		f.logger.Info("window folded",
			slog.Int("window", i),
			slog.Int("tokens", used),
			slog.Int("total_tokens", res.Tokens))

		if f.onStep != nil {
			f.onStep(Step{Window: i, State: state, Tokens: used, Total: res.Tokens})
		}
	}

	res.Phase = PhaseDone
	f.logger.Info("fold complete",
		slog.Int("windows", res.Windows),
		slog.Int("total_tokens", res.Tokens))
	return res, nil
}

// step builds, checks and completes the prompt for window i.
func (f *Folder) step(ctx context.Context, i int, state, window string) (string, provider.TokenUsage, error) {
	var none provider.TokenUsage

	prompt, err := f.builder.Build(state, window)
	if err != nil {
		return "", none, &Error{Window: i, Op: OpPrompt, Err: err}
	}
	f.logger.Debug("prompt", slog.Int("window", i), slog.String("prompt", prompt))

	if err := f.checkBudget(i, prompt); err != nil {
		return "", none, &Error{Window: i, Op: OpBudget, Err: err}
	}

	next, usage, err := f.complete(ctx, prompt)
	if err != nil {
		return "", none, &Error{Window: i, Op: OpComplete, Err: err}
	}
	return next, usage, nil
}

func (f *Folder) checkBudget(i int, prompt string) error {
	if f.budget == nil || f.budgetMode == BudgetOff || f.budgetMode == "" {
		return nil
	}
	err := f.budget.Check(prompt)
	if err == nil {
		return nil
	}
	if f.budgetMode == BudgetStrict {
		return err
	}
	if errors.Is(err, tokens.ErrOverBudget) {
		f.logger.Warn("prompt exceeds token budget",
			slog.Int("window", i),
			slog.Int("prompt_tokens", f.budget.Count(prompt)),
			slog.Int("available", f.budget.Available()))
	}
	return nil
}
