package http

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
)

// TokenVerifier validates the platform's HS256 access tokens and extracts the
// acting principal. Token issuance belongs to the authentication service; this
// side only verifies.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (v *TokenVerifier) Verify(raw string) (application.Actor, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return application.Actor{}, err
	}
	if !token.Valid {
		return application.Actor{}, fmt.Errorf("invalid token")
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return application.Actor{}, fmt.Errorf("parse token subject: %w", err)
	}
	role := claims.Role
	if role == "" {
		role = application.RoleUser
	}
	return application.Actor{SubjectID: subjectID, Role: role}, nil
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		actor, err := h.verifier.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}

		ctx := contextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
