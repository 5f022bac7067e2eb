package ai

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderTransport(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"provider message", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "bad key"},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, "groq error: 500"},
		{"empty message", http.StatusTooManyRequests, `{"error":{"message":"  "}}`, "groq error: 429"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := &http.Client{Transport: newProviderTransport("groq", nil)}
			resp, err := client.Get(srv.URL)
			if resp != nil {
				resp.Body.Close()
			}
			require.Error(t, err)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.status, pe.StatusCode)
			assert.Equal(t, tc.wantMsg, pe.Message)
			assert.Equal(t, tc.wantMsg, ProviderMessage(err))
		})
	}
}

func TestProviderTransportPassesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	client := &http.Client{Transport: newProviderTransport("groq", nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProviderMessageFallsBack(t *testing.T) {
	assert.Equal(t, "", ProviderMessage(nil))
	assert.Equal(t, "dial tcp: refused", ProviderMessage(errors.New("dial tcp: refused")))
}
