package tokens

// Pricing holds per-million-token pricing for a model, in US dollars.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Cost returns the price of the given token counts.
func (p Pricing) Cost(input, output int) float64 {
	return float64(input)/1_000_000*p.InputPerMillion +
		float64(output)/1_000_000*p.OutputPerMillion
}

// ModelPrices contains list pricing for the OpenAI models in ModelLimits.
// Prices change; treat results as estimates.
var ModelPrices = map[string]Pricing{
	"gpt-3.5-turbo-instruct": {InputPerMillion: 1.50, OutputPerMillion: 2.00},
	"davinci-002":            {InputPerMillion: 2.00, OutputPerMillion: 2.00},
	"babbage-002":            {InputPerMillion: 0.40, OutputPerMillion: 0.40},
	"gpt-3.5-turbo":          {InputPerMillion: 0.50, OutputPerMillion: 1.50},
	"gpt-4":                  {InputPerMillion: 30.00, OutputPerMillion: 60.00},
	"gpt-4-turbo":            {InputPerMillion: 10.00, OutputPerMillion: 30.00},
	"gpt-4o":                 {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":            {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4.1":                {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	"gpt-4.1-mini":           {InputPerMillion: 0.40, OutputPerMillion: 1.60},
}

// PricingFor returns the pricing of model. Dated snapshots match their base
// model. The bool is false for models without known pricing.
func PricingFor(model string) (Pricing, bool) {
	return lookupModel(ModelPrices, model)
}

// EstimateCost prices a run's token usage for model.
// The bool is false for models without known pricing.
func EstimateCost(model string, input, output int) (float64, bool) {
	p, ok := PricingFor(model)
	if !ok {
		return 0, false
	}
	return p.Cost(input, output), true
}
