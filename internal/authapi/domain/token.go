package domain

// TokenPair is what the login and refresh operations return: the short-lived
// signed access token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
