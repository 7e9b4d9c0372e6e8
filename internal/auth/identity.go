package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mydayapp/myday/internal/common"
)

// IdentityClient is the HTTP client for the external identity service. It
// signs users in and out and keeps the resulting user id in the Session.
type IdentityClient struct {
	baseURL string
	http    *http.Client
	session *Session
}

// NewIdentityClient returns an authenticator backed by the identity service
// at baseURL, recording sign-in state in session.
func NewIdentityClient(baseURL string, session *Session) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// SignUp creates an account and signs the session in.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// SignIn authenticates and records the user id in the session.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *IdentityClient) authenticate(ctx context.Context, path, email, password string) (string, error) {
	if err := validateCredentials(email, password); err != nil {
		return "", err
	}

	body, err := json.Marshal(authRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: identity service returned %d: %s", common.ErrUnauthorized, resp.StatusCode, msg)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}

	uid, err := userIDFromToken(ar.Token)
	if err != nil {
		return "", err
	}

	c.session.Set(uid)
	return uid, nil
}

// SignOut drops the session.
func (c *IdentityClient) SignOut() {
	c.session.Clear()
}

// CurrentUserID returns the signed-in user id, or empty when signed out.
func (c *IdentityClient) CurrentUserID() string {
	uid, _ := c.session.UserID()
	return uid
}
