package tokend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-lost-found/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implementa auth.AuthVerifier contra tokend.
// Se instancia desde main cuando TOKEND_BASE_URL está configurado;
// sin eso el router queda en modo dev (X-Debug-User-ID).
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("tokend verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("tokend claims missing user id")
	}

	return claims, nil
}

var _ auth.AuthVerifier = (*Verifier)(nil)
