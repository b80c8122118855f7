// Package main provides a CLI tool for generating test bearer tokens for the
// consent gateway. These tokens use a dev signing key and will NOT work
// against production upstreams.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const devSigningKey = "dev-secret-key-change-in-production"

func main() {
	subject := flag.String("subject", "", "Token subject (caller ID). Generated if empty.")
	issuer := flag.String("issuer", "cm-gateway-dev", "Token issuer")
	ttl := flag.Duration("ttl", 15*time.Minute, "Token time-to-live")
	key := flag.String("key", devSigningKey, "HMAC signing key")
	flag.Parse()

	sub := *subject
	if sub == "" {
		sub = uuid.New().String()
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    *issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		ID:        uuid.New().String(),
	})

	signed, err := token.SignedString([]byte(*key))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign token:", err)
		os.Exit(1)
	}

	fmt.Println(signed)
}
