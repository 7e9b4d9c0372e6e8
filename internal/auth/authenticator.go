package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mydayapp/myday/internal/common"
)

// Authenticator authenticates the user against the external identity
// service and exposes the resulting stable user id.
//
// Contract:
//   - SignUp: create an account; the caller is signed in on success.
//   - SignIn: authenticate; the session holds the user id afterwards.
//   - SignOut: drop the session; subsequent gated calls become no-ops.
//   - CurrentUserID: synchronous query; empty string means signed out.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut()
	CurrentUserID() string
}

var validate = validator.New()

// credentials mirrors the sign-in form constraints: a well-formed email and
// a password of at least six characters.
type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func validateCredentials(email, password string) error {
	if err := validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// userIDFromToken extracts the stable user id from an identity token. The
// token is issued and signed by the identity service; the client only reads
// the registered claims and rejects expired tokens.
func userIDFromToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return "", common.ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return claims.Subject, nil
}
