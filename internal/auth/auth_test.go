package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydayapp/myday/internal/common"
)

func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: subject}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestSession_ZeroValueIsSignedOut(t *testing.T) {
	var s Session

	uid, ok := s.UserID()
	assert.False(t, ok)
	assert.Empty(t, uid)

	s.Set("u1")
	uid, ok = s.UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", uid)

	s.Clear()
	_, ok = s.UserID()
	assert.False(t, ok)
}

func TestUserIDFromToken(t *testing.T) {
	uid, err := userIDFromToken(signToken(t, "user-42", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)

	// No expiry claim is accepted.
	uid, err = userIDFromToken(signToken(t, "user-42", time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)

	_, err = userIDFromToken(signToken(t, "user-42", time.Now().Add(-time.Minute)))
	require.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = userIDFromToken(signToken(t, "", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = userIDFromToken("not a token")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "a@example.com", "secret1", false},
		{"malformed email", "nope", "secret1", true},
		{"empty email", "", "secret1", true},
		{"short password", "a@example.com", "12345", true},
		{"empty password", "a@example.com", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCredentials(tc.email, tc.password)
			if tc.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func identityServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handle := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req authRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "secret1" {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(authResponse{Token: token})
		}
	}
	mux.HandleFunc("POST /auth/register", handle(http.StatusCreated))
	mux.HandleFunc("POST /auth/login", handle(http.StatusOK))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIdentityClient_SignInSetsSession(t *testing.T) {
	srv := identityServer(t, signToken(t, "user-42", time.Now().Add(time.Hour)))
	session := &Session{}
	c := NewIdentityClient(srv.URL, session)

	uid, err := c.SignIn(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)

	got, ok := session.UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-42", got)
	assert.Equal(t, "user-42", c.CurrentUserID())

	c.SignOut()
	_, ok = session.UserID()
	assert.False(t, ok)
	assert.Empty(t, c.CurrentUserID())
}

func TestIdentityClient_SignUp(t *testing.T) {
	srv := identityServer(t, signToken(t, "new-user", time.Now().Add(time.Hour)))
	c := NewIdentityClient(srv.URL, &Session{})

	uid, err := c.SignUp(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new-user", uid)
}

func TestIdentityClient_BadCredentials(t *testing.T) {
	srv := identityServer(t, signToken(t, "user-42", time.Now().Add(time.Hour)))
	session := &Session{}
	c := NewIdentityClient(srv.URL, session)

	_, err := c.SignIn(context.Background(), "a@example.com", "wrong-1")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, ok := session.UserID()
	assert.False(t, ok)
}

func TestIdentityClient_RejectsInvalidInputBeforeCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	c := NewIdentityClient(srv.URL, &Session{})
	_, err := c.SignIn(context.Background(), "nope", "secret1")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, called)
}

func TestIdentityClient_ExpiredTokenRejected(t *testing.T) {
	srv := identityServer(t, signToken(t, "user-42", time.Now().Add(-time.Minute)))
	session := &Session{}
	c := NewIdentityClient(srv.URL, session)

	_, err := c.SignIn(context.Background(), "a@example.com", "secret1")
	require.ErrorIs(t, err, common.ErrTokenExpired)

	_, ok := session.UserID()
	assert.False(t, ok)
}
