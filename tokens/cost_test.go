package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricing_Cost(t *testing.T) {
	p := Pricing{InputPerMillion: 2, OutputPerMillion: 8}
	assert.InDelta(t, 0.010, p.Cost(1_000, 1_000), 1e-9)
	assert.Zero(t, p.Cost(0, 0))
}

func TestPricingFor(t *testing.T) {
	tests := []struct {
		model string
		want  Pricing
		ok    bool
	}{
		{"gpt-3.5-turbo-instruct", ModelPrices["gpt-3.5-turbo-instruct"], true},
		{"gpt-4o-2024-08-06", ModelPrices["gpt-4o"], true},
		{"gpt-4o-mini-2024-07-18", ModelPrices["gpt-4o-mini"], true},
		{"llama3", Pricing{}, false},
		{"", Pricing{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := PricingFor(tt.model)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-3.5-turbo-instruct", 2_000_000, 500_000)
	require.True(t, ok)
	assert.InDelta(t, 4.0, cost, 1e-9)

	_, ok = EstimateCost("mock-model", 10, 10)
	assert.False(t, ok)
}
