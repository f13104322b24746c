// Package tokens estimates prompt sizes and checks them against a model's
// context window before a completion call is made.
//
// Two counters are available. EstimatingCounter uses the ~4 characters per
// token rule of thumb and needs nothing. TiktokenCounter uses the model's BPE
// encoding and is exact for OpenAI models; its encoding tables are loaded on
// first use.
//
//	counter := tokens.NewEstimatingCounter()
//	n := counter.Count(prompt)
//
// # Budget
//
// A Budget reserves room for the completion inside the context window:
//
//	budget := tokens.NewBudget(tokens.GetModelLimit("gpt-3.5-turbo-instruct"), 1000)
//	if err := budget.Check(prompt); errors.Is(err, tokens.ErrOverBudget) {
//	    // prompt + completion would not fit
//	}
//
// See ModelLimits for the known context windows.
//
// # Cost
//
// EstimateCost prices token usage with ModelPrices:
//
//	cost, ok := tokens.EstimateCost("gpt-4o-mini", usage.InputTokens, usage.OutputTokens)
package tokens
