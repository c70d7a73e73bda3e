// Package auth verifies bearer credentials against the Supabase identity
// service and attaches the resolved caller to the request context.
package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
)

const genericAuthMessage = "Invalid or expired token, user not found."

// Identity is the resolved caller. Both fields may be empty; an unknown id
// or email never aborts the pipeline, it only degrades attribution logging.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenVerifier resolves a bearer token to an Identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Verifier validates tokens against a Supabase project's auth endpoint.
type Verifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewVerifier creates a verifier for the given Supabase project URL and key.
func NewVerifier(baseURL, apiKey string) *Verifier {
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify resolves a token via GET /auth/v1/user. Any transport or protocol
// failure is reported as an authentication failure, never as anonymous
// access.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, apperrors.Unauthenticated("could not validate credentials", err)
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperrors.Unauthenticated("could not validate credentials: "+err.Error(), err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unauthenticated(extractMessage(body), nil)
	}

	var identity Identity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, apperrors.Unauthenticated(genericAuthMessage, err)
	}
	return &identity, nil
}

// extractMessage pulls the most specific message out of the service's
// heterogeneous error body: known JSON keys first, then the raw body,
// then a generic fallback.
func extractMessage(body []byte) string {
	var obj map[string]any
	if json.Unmarshal(body, &obj) == nil {
		for _, key := range []string{"message", "msg", "error_description", "error"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 512 {
		return s
	}
	return genericAuthMessage
}
