// Package provider implements the model.Provider boundary for each supported
// LLM backend. All vendor-specific request/response translation lives here;
// the engine and session layers only see normalized messages and responses.
package provider

// ProviderType identifies which LLM backend to use.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	APIKey  string
	Model   string
}

// MapProviderIDToType converts a user-facing provider ID from configuration
// to a ProviderType. Unknown IDs pass through as-is; the factory errors on
// them with the original spelling intact.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
