package chat

import "strings"

// Model is a chat model selectable in the UI.
type Model struct {
	ID       string // identifier sent to the chat endpoint
	Provider string // provider whose credential must be registered
	Label    string
}

// DefaultModelID is used when the configuration names no model.
const DefaultModelID = "gpt-4o"

// Models is the registry of supported chat models, in display order.
var Models = []Model{
	{ID: "gpt-4o", Provider: "openai", Label: "GPT-4o"},
	{ID: "gpt-4o-mini", Provider: "openai", Label: "GPT-4o mini"},
	{ID: "claude-3-5-sonnet", Provider: "anthropic", Label: "Claude 3.5 Sonnet"},
	{ID: "claude-3-5-haiku", Provider: "anthropic", Label: "Claude 3.5 Haiku"},
	{ID: "gemini-1.5-pro", Provider: "google", Label: "Gemini 1.5 Pro"},
	{ID: "deepseek-chat", Provider: "deepseek", Label: "DeepSeek Chat"},
}

// LookupModel finds a registered model by id.
func LookupModel(id string) (Model, bool) {
	for _, m := range Models {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	return Model{}, false
}

// ProviderFor returns the provider of a model id, or "" for unknown models.
func ProviderFor(modelID string) string {
	m, ok := LookupModel(modelID)
	if !ok {
		return ""
	}
	return m.Provider
}

// NextModel returns the model after id in registry order, wrapping around.
func NextModel(id string) Model {
	for i, m := range Models {
		if strings.EqualFold(m.ID, id) {
			return Models[(i+1)%len(Models)]
		}
	}
	return Models[0]
}
