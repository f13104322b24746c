package tokens

import (
	"errors"
	"fmt"
)

// ErrOverBudget is returned when a prompt plus its reserved completion would
// not fit the model's context window.
var ErrOverBudget = errors.New("prompt exceeds token budget")

// Budget checks prompts against a context window.
type Budget struct {
	// Limit is the model's context window in tokens.
	Limit int

	// Reserved is the room kept free for the completion (the request's max tokens).
	Reserved int

	counter Counter
}

// NewBudget creates a budget that estimates prompt size.
func NewBudget(limit, reserved int) *Budget {
	return NewBudgetWithCounter(limit, reserved, NewEstimatingCounter())
}

// NewBudgetWithCounter creates a budget that counts with counter.
// A nil counter estimates.
func NewBudgetWithCounter(limit, reserved int, counter Counter) *Budget {
	if counter == nil {
		counter = NewEstimatingCounter()
	}
	return &Budget{Limit: limit, Reserved: reserved, counter: counter}
}

// Available returns the tokens a prompt may use.
func (b *Budget) Available() int {
	avail := b.Limit - b.Reserved
	if avail < 0 {
		return 0
	}
	return avail
}

// Count returns the prompt's token count as the budget sees it.
func (b *Budget) Count(prompt string) int {
	return b.counter.Count(prompt)
}

// Check returns an error wrapping ErrOverBudget if prompt does not fit.
func (b *Budget) Check(prompt string) error {
	used := b.counter.Count(prompt)
	if used > b.Available() {
		return fmt.Errorf("%w: prompt is %d tokens, %d available (%d limit - %d reserved)",
			ErrOverBudget, used, b.Available(), b.Limit, b.Reserved)
	}
	return nil
}

// Remaining returns how many tokens are left after prompt, never below zero.
func (b *Budget) Remaining(prompt string) int {
	remaining := b.Available() - b.counter.Count(prompt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
