package main

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var errUnauthorized = errors.New("api: unauthorized trigger")

// authorizeTrigger checks the Authorization header against the shared cron
// secret. An empty configured secret disables the check. The bearer value
// may be the raw secret, or an HS256 token signed with it for schedulers
// that mint short-lived tokens per invocation.
func authorizeTrigger(header, secret string) error {
	if secret == "" {
		return nil
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return errUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
		return nil
	}

	if err := verifySignedTrigger(token, secret); err != nil {
		return errUnauthorized
	}
	return nil
}

func verifySignedTrigger(tokenString, secret string) error {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("api: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errUnauthorized
	}
	return nil
}
