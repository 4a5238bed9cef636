package common

const (
	// MaxRequestBody limits JSON request bodies for donation and admin endpoints.
	MaxRequestBody = 1 << 20
)
