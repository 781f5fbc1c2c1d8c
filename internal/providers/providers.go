// Package providers holds the static registry of model-routing providers
// offered by the node-configuration UI. Pure configuration data: no runtime
// behavior beyond lookup.
package providers

// Provider is one routing target. Value is the stable identifier stored in
// node configs; Label is what the picker shows.
type Provider struct {
	Value    string
	Label    string
	BaseURL  string
	Provider string
}

var registry = []Provider{
	{Value: "openai/gpt-4o", Label: "GPT-4o", BaseURL: "https://api.openai.com/v1", Provider: "openai"},
	{Value: "openai/gpt-4o-mini", Label: "GPT-4o mini", BaseURL: "https://api.openai.com/v1", Provider: "openai"},
	{Value: "anthropic/claude-sonnet", Label: "Claude Sonnet", BaseURL: "https://api.anthropic.com/v1", Provider: "anthropic"},
	{Value: "anthropic/claude-haiku", Label: "Claude Haiku", BaseURL: "https://api.anthropic.com/v1", Provider: "anthropic"},
	{Value: "google/gemini-pro", Label: "Gemini Pro", BaseURL: "https://generativelanguage.googleapis.com/v1beta", Provider: "google"},
	{Value: "meta/llama-3-70b", Label: "Llama 3 70B", BaseURL: "https://api.together.xyz/v1", Provider: "together"},
	{Value: "mistral/mistral-large", Label: "Mistral Large", BaseURL: "https://api.mistral.ai/v1", Provider: "mistral"},
	{Value: "ollama/local", Label: "Ollama (local)", BaseURL: "http://localhost:11434/v1", Provider: "ollama"},
}

// All returns the registry in display order. The returned slice is a copy.
func All() []Provider {
	out := make([]Provider, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a provider by its stable value. The second return is false
// when the value is not registered.
func Lookup(value string) (Provider, bool) {
	for _, p := range registry {
		if p.Value == value {
			return p, true
		}
	}
	return Provider{}, false
}

// ForProvider returns the registered entries for one upstream provider.
func ForProvider(name string) []Provider {
	var out []Provider
	for _, p := range registry {
		if p.Provider == name {
			out = append(out, p)
		}
	}
	return out
}
