package types

// ProviderNone marks a GenerateResult produced after every provider in the
// chain failed. The Text then carries the apology with the captured errors.
const ProviderNone = "none"

// GenerateResult is the outcome of one answer-generation attempt.
type GenerateResult struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Reply is what the dispatcher hands back to the transport layer. A nil
// *Reply means the conversation is handled by a human and no automated
// message must be sent.
type Reply struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
