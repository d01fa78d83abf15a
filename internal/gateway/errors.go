package gateway

import (
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// Sentinel errors for gateway operations.
var (
	ErrNotConfigured = errors.New("model gateway not configured")
	ErrTransport     = errors.New("model gateway request failed")
)

// StatusCode returns the backend HTTP status carried by err, or 0 when the
// failure happened before a response was received.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}
