package llm

// ModelInfo describes a selectable model for the UI.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ChatModels lists the chat models offered to clients.
var ChatModels = []ModelInfo{
	{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "OpenAI"},
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Provider: "OpenAI"},
	{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "Anthropic"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Provider: "Anthropic"},
	{ID: "google/gemini-pro-1.5", Name: "Gemini Pro 1.5", Provider: "Google"},
	{ID: "meta-llama/llama-3.1-405b-instruct", Name: "Llama 3.1 405B", Provider: "Meta"},
	{ID: "mistralai/mistral-large", Name: "Mistral Large", Provider: "Mistral AI"},
}

// ImageModels lists the image-generation models offered to clients.
var ImageModels = []ModelInfo{
	{ID: "openai/dall-e-3", Name: "DALL-E 3", Provider: "OpenAI"},
	{ID: "stability-ai/stable-diffusion-xl", Name: "Stable Diffusion XL", Provider: "Stability AI"},
}
