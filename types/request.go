package types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ToggleSessionRequest struct {
	LineUserID string `json:"line_user_id"`
}

type TestBotRequest struct {
	Message string `json:"message"`
}
