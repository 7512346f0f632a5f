package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on authenticated requests.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
	// AuthTokenHeaderName carries the issued token on signup/login responses.
	// A bare token in this header is also accepted on requests.
	AuthTokenHeaderName = "X-Auth"
	// RequestIDHeaderName echoes the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
