package domain

// TokenPair is what a successful login returns: a short-lived stateless access
// token and a long-lived store-checked refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until access token expiry
	TokenType    string `json:"tokenType"` // always "Bearer"
}
