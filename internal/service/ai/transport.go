package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 << 10

// ProviderError is a non-2xx answer from the completion provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// providerTransport turns non-2xx provider responses into *ProviderError,
// carrying the provider's own error.message when the body has one.
type providerTransport struct {
	provider string
	base     http.RoundTripper
}

func newProviderTransport(provider string, base http.RoundTripper) *providerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &providerTransport{provider: provider, base: base}
}

func (t *providerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, newProviderError(t.provider, resp.StatusCode, body)
}

func newProviderError(provider string, status int, body []byte) *ProviderError {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = strings.TrimSpace(payload.Error.Message)
	}
	if msg == "" {
		msg = fmt.Sprintf("%s error: %d", provider, status)
	}
	return &ProviderError{Provider: provider, StatusCode: status, Message: msg}
}

// ProviderMessage returns the provider's message when err carries one, else err's text.
func ProviderMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
