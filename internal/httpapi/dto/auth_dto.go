package dto

// Data Transfer Objects for signup and token exchange

// SignUpRequest: payload for requesting a confirmation code
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=150"`
}

// SignUpResponse echoes the identifying pair back to the caller
type SignUpResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: payload for exchanging a confirmation code for a token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: access token issued after a successful exchange
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"` // e.g., "Bearer"
	ExpiresIn int64  `json:"expires_in"` // seconds
}
