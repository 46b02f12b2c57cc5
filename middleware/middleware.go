package middleware

import (
	"context"
	"net/http"
	"strings"

	"cardoctor/auth"
	"cardoctor/globals"
	"cardoctor/logger"
	"cardoctor/utils"

	"github.com/julienschmidt/httprouter"
)

// TokenVerifier decodes a bearer credential. *auth.TokenService satisfies it.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Authorize runs the booking-read gate against a raw Authorization header value.
// When hasTarget is false there is no email to compare and any valid token passes.
func Authorize(v TokenVerifier, header, targetEmail string, hasTarget bool) (auth.Claims, error) {
	if header == "" {
		return nil, &auth.AuthError{Kind: auth.Unauthenticated}
	}

	// "Bearer <token>": the credential is the second field.
	var token string
	if fields := strings.Fields(header); len(fields) > 1 {
		token = fields[1]
	}

	claims, err := v.Verify(token)
	if err != nil {
		return nil, &auth.AuthError{Kind: auth.Forbidden, Err: err}
	}

	if hasTarget && claims.Email() != targetEmail {
		return nil, &auth.AuthError{Kind: auth.OwnershipMismatch}
	}
	return claims, nil
}

// VerifyOwner requires a valid bearer token whose email matches the ?email= query parameter.
func VerifyOwner(v TokenVerifier, next httprouter.Handle) httprouter.Handle {
	return gate(v, true, next)
}

// VerifyToken requires a valid bearer token and skips the ownership comparison.
func VerifyToken(v TokenVerifier, next httprouter.Handle) httprouter.Handle {
	return gate(v, false, next)
}

func gate(v TokenVerifier, checkOwner bool, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		q := r.URL.Query()
		claims, err := Authorize(v, r.Header.Get("Authorization"), q.Get("email"), checkOwner && q.Has("email"))
		if err != nil {
			logger.WarnContext(r.Context(), "authorization rejected",
				"path", r.URL.Path, "reason", err.Error())
			utils.RespondWithErr(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), globals.ClaimsKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(globals.ClaimsKey).(auth.Claims)
	return claims, ok
}
