package metadata

// Provider names accepted by configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Model struct {
	ID               string
	Provider         string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
}

var Models = []Model{
	{
		ID:               "claude-sonnet-4-20250514",
		Provider:         ProviderAnthropic,
		Label:            "Claude Sonnet 4",
		InputPerMillion:  3.00,
		OutputPerMillion: 15.00,
	},
	{
		ID:               "claude-3-5-haiku-20241022",
		Provider:         ProviderAnthropic,
		Label:            "Claude 3.5 Haiku",
		InputPerMillion:  0.80,
		OutputPerMillion: 4.00,
	},
	{
		ID:               "gemini-2.5-flash",
		Provider:         ProviderGemini,
		Label:            "Gemini 2.5 Flash",
		InputPerMillion:  0.30,
		OutputPerMillion: 2.50,
	},
	{
		ID:               "gemini-2.5-pro",
		Provider:         ProviderGemini,
		Label:            "Gemini 2.5 Pro",
		InputPerMillion:  1.25,
		OutputPerMillion: 10.00,
	},
}

const (
	DefaultInputPerMillion  = 3.00
	DefaultOutputPerMillion = 15.00
)

// DefaultModel returns the first registered model for provider, or "" if none.
func DefaultModel(provider string) string {
	for _, m := range Models {
		if m.Provider == provider {
			return m.ID
		}
	}
	return ""
}

// ModelsFor lists the registered models of one provider in registry order.
func ModelsFor(provider string) []Model {
	var out []Model
	for _, m := range Models {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	return out
}

func Pricing(modelID string) (Model, bool) {
	for _, m := range Models {
		if m.ID == modelID {
			return m, true
		}
	}
	return Model{
		ID:               "default",
		Label:            "Default",
		InputPerMillion:  DefaultInputPerMillion,
		OutputPerMillion: DefaultOutputPerMillion,
	}, false
}

// EstimateCost returns the USD cost of one call at list prices.
func EstimateCost(modelID string, inputTokens, outputTokens int) float64 {
	p, _ := Pricing(modelID)
	return (float64(inputTokens)/1_000_000)*p.InputPerMillion + (float64(outputTokens)/1_000_000)*p.OutputPerMillion
}
