package fold_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/statefold/fold"
	"github.com/randalmurphal/statefold/mock"
	"github.com/randalmurphal/statefold/prompt"
	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
)

// memSink records appended states and can fail on a given append.
type memSink struct {
	lines  []string
	failAt int
}

func (s *memSink) Append(state string) error {
	if s.failAt > 0 && len(s.lines)+1 == s.failAt {
		return errors.New("disk full")
	}
	s.lines = append(s.lines, state)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newBuilder(t *testing.T) *prompt.Builder {
	t.Helper()
	b, err := prompt.NewBuilder("Summarize.", "ex")
	require.NoError(t, err)
	return b
}

func TestRun_OrderPreserving(t *testing.T) {
	client := mock.NewMockClient("").WithResponses(" S1 \n", "S2", "S3")
	sink := &memSink{}
	folder := fold.New(client, newBuilder(t), fold.WithSink(sink), fold.WithLogger(quietLogger()))

	windows := []string{"w one", "w two", "w three"}
	res, err := folder.Run(context.Background(), windows, "none")
	require.NoError(t, err)

	require.Equal(t, 3, client.CallCount())
	prevStates := []string{"none", "S1", "S2"}
	for i, call := range client.Calls {
		want := prompt.Assemble("Summarize.", "ex", prevStates[i], windows[i])
		assert.Equal(t, want, call.Prompt, "call %d", i)
		assert.Contains(t, call.Prompt, "current_state:\n"+prevStates[i]+"\n")
	}

	assert.Equal(t, "S3", res.State)
	assert.Equal(t, 3, res.Windows)
	assert.Equal(t, fold.PhaseDone, res.Phase)
	assert.Equal(t, []string{"S1", "S2", "S3"}, sink.lines)
}

func TestRun_TokensAccumulate(t *testing.T) {
	client := mock.NewMockClient("").WithCompleteFunc(func(_ context.Context, req provider.Request) (*provider.Response, error) {
		return &provider.Response{Content: "s", Usage: provider.TokenUsage{InputTokens: 7, OutputTokens: 3, TotalTokens: 10}}, nil
	})
	folder := fold.New(client, newBuilder(t), fold.WithLogger(quietLogger()))

	res, err := folder.Run(context.Background(), []string{"a", "b", "c", "d"}, "init")
	require.NoError(t, err)
	assert.Equal(t, 40, res.Tokens)
	assert.Equal(t, 4, res.Windows)
	assert.Equal(t, provider.TokenUsage{InputTokens: 28, OutputTokens: 12, TotalTokens: 40}, res.Usage)
}

func TestRun_ZeroWindows(t *testing.T) {
	client := mock.NewMockClient("never")
	sink := &memSink{}
	folder := fold.New(client, newBuilder(t), fold.WithSink(sink), fold.WithLogger(quietLogger()))

	res, err := folder.Run(context.Background(), nil, "initial")
	require.NoError(t, err)

	assert.Equal(t, 0, client.CallCount())
	assert.Equal(t, "initial", res.State)
	assert.Equal(t, 0, res.Windows)
	assert.Equal(t, 0, res.Tokens)
	assert.Equal(t, fold.PhaseDone, res.Phase)
	assert.Empty(t, sink.lines)
}

func TestRun_GenerationSent(t *testing.T) {
	client := mock.NewMockClient("s")
	gen := provider.Generation{MaxTokens: 256, Temperature: 0, TopP: 1}
	folder := fold.New(client, newBuilder(t),
		fold.WithGeneration(gen),
		fold.WithModel("gpt-3.5-turbo-instruct"),
		fold.WithLogger(quietLogger()))

	_, err := folder.Run(context.Background(), []string{"w"}, "x")
	require.NoError(t, err)

	call := client.LastCall()
	require.NotNil(t, call)
	assert.Equal(t, gen, call.Generation)
	assert.Equal(t, "gpt-3.5-turbo-instruct", call.Model)
}

func TestRun_CompletionFailureAborts(t *testing.T) {
	client := mock.NewMockClient("").WithResponses("S1", "S2").WithFailAfter(1)
	sink := &memSink{}
	folder := fold.New(client, newBuilder(t), fold.WithSink(sink), fold.WithLogger(quietLogger()))

	res, err := folder.Run(context.Background(), []string{"a", "b", "c"}, "init")
	require.Error(t, err)

	var ferr *fold.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Window)
	assert.Equal(t, fold.OpComplete, ferr.Op)
	assert.ErrorIs(t, err, fold.ErrCompletion)
	assert.ErrorIs(t, err, provider.ErrUnavailable, "client error stays in the chain")
	assert.Contains(t, err.Error(), "window 1: complete")

	assert.Equal(t, 2, client.CallCount(), "no call after the failure")
	assert.Equal(t, "S1", res.State)
	assert.Equal(t, 1, res.Windows)
	assert.Equal(t, fold.PhaseFailed, res.Phase)
	assert.Equal(t, []string{"S1"}, sink.lines)
}

func TestRun_SinkFailureAborts(t *testing.T) {
	client := mock.NewMockClient("").WithResponses("S1", "S2", "S3")
	sink := &memSink{failAt: 2}
	folder := fold.New(client, newBuilder(t), fold.WithSink(sink), fold.WithLogger(quietLogger()))

	res, err := folder.Run(context.Background(), []string{"a", "b", "c"}, "init")

	var ferr *fold.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Window)
	assert.Equal(t, fold.OpAppend, ferr.Op)
	assert.Equal(t, 2, client.CallCount())
	assert.Equal(t, "S1", res.State)
	assert.Equal(t, 1, res.Windows)
}

func TestRun_StrictBudget(t *testing.T) {
	client := mock.NewMockClient("s")
	budget := tokens.NewBudget(10, 5)
	folder := fold.New(client, newBuilder(t),
		fold.WithBudget(budget, fold.BudgetStrict),
		fold.WithLogger(quietLogger()))

	res, err := folder.Run(context.Background(), []string{strings.Repeat("word ", 50)}, "init")
	require.Error(t, err)

	var ferr *fold.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fold.OpBudget, ferr.Op)
	assert.ErrorIs(t, err, tokens.ErrOverBudget)
	assert.Equal(t, 0, client.CallCount())
	assert.Equal(t, "init", res.State)
}

func TestRun_WarnBudgetContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	client := mock.NewMockClient("s")
	folder := fold.New(client, newBuilder(t),
		fold.WithBudget(tokens.NewBudget(10, 5), fold.BudgetWarn),
		fold.WithLogger(logger))

	_, err := folder.Run(context.Background(), []string{strings.Repeat("word ", 50)}, "init")
	require.NoError(t, err)
	assert.Equal(t, 1, client.CallCount())
	assert.Contains(t, buf.String(), "prompt exceeds token budget")
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	folder := fold.New(mock.NewMockClient("s"), newBuilder(t), fold.WithLogger(quietLogger()))
	_, err := folder.Run(ctx, []string{"a"}, "init")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_OnStep(t *testing.T) {
	var steps []fold.Step
	client := mock.NewMockClient("").WithResponses("S1", "S2")
	folder := fold.New(client, newBuilder(t),
		fold.WithOnStep(func(s fold.Step) { steps = append(steps, s) }),
		fold.WithLogger(quietLogger()))

	_, err := folder.Run(context.Background(), []string{"a", "b"}, "init")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 0, steps[0].Window)
	assert.Equal(t, "S2", steps[1].State)
	assert.Equal(t, steps[0].Tokens+steps[1].Tokens, steps[1].Total)
}

func TestRun_Diagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	folder := fold.New(mock.NewMockClient("").WithResponses("S1", "S2"), newBuilder(t), fold.WithLogger(logger))
	_, err := folder.Run(context.Background(), []string{"alpha", "beta"}, "init")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "windows=2")
	assert.Contains(t, out, "update_graph(alpha)")
	assert.Contains(t, out, "state=S2")
	assert.Contains(t, out, "total_tokens=")
	assert.Contains(t, out, "fold complete")
}

func TestCompleteState(t *testing.T) {
	client := mock.NewMockClient("\n  A -> B  \n")
	folder := fold.New(client, newBuilder(t), fold.WithLogger(quietLogger()))

	state, used, err := folder.CompleteState(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "A -> B", state)
	assert.Positive(t, used)
	assert.Equal(t, "prompt text", client.LastCall().Prompt)
}

func TestCompleteState_ErrorWrapped(t *testing.T) {
	cause := provider.NewError("mock", "complete", provider.ErrRateLimited, true)
	folder := fold.New(mock.NewMockClient("").WithError(cause), newBuilder(t), fold.WithLogger(quietLogger()))

	_, _, err := folder.CompleteState(context.Background(), "p")
	assert.ErrorIs(t, err, fold.ErrCompletion)
	assert.ErrorIs(t, err, provider.ErrRateLimited)
	assert.True(t, provider.IsRetryable(err))
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase fold.Phase
		want  string
	}{
		{fold.PhaseIdle, "idle"},
		{fold.PhaseFolding, "folding"},
		{fold.PhaseDone, "done"},
		{fold.PhaseFailed, "failed"},
		{fold.Phase(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
		text, err := tt.phase.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(text))
	}
}

func ExampleFolder_Run() {
	builder, _ := prompt.NewBuilder("Summarize.", "ex")
	client := mock.NewMockClient("").WithResponses("S1", "S2")
	folder := fold.New(client, builder, fold.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	res, _ := folder.Run(context.Background(), []string{"a b c", "c d e"}, "none")
	fmt.Println(res.State, res.Windows, res.Phase)
	// Output: S2 2 done
}
