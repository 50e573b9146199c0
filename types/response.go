package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ToggleSessionResponse struct {
	LineUserID string `json:"line_user_id"`
	Mode       Mode   `json:"mode"`
}

// KnowledgePreview summarizes the current snapshot for the dashboard without
// dumping the full combined context.
type KnowledgePreview struct {
	PageTitles  []string `json:"page_titles"`
	FetchedAt   int64    `json:"fetched_at"`
	ContextSize int      `json:"context_size"`
}

// TestBotResponse mirrors what the test console shows: the generated answer
// plus everything needed to judge how it was produced.
type TestBotResponse struct {
	Response  string   `json:"response"`
	Context   string   `json:"context"`
	Provider  string   `json:"provider"`
	Model     string   `json:"model"`
	PageCount int      `json:"page_count"`
	Pages     []string `json:"pages"`
	LatencyMs int64    `json:"latency_ms"`
}
