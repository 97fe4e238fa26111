// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidTokenParams    = errors.New("invalid params for generating JWT token")
	ErrEmptySubject          = errors.New("token has empty subject")
	ErrInvalidAuthorization  = errors.New("invalid authorization header")
	ErrUnexpectedTokenClaims = errors.New("unexpected token claims")
)

// GenerateJWTToken issues an HMAC-SHA256 token whose subject is userID.
//
// All parameters are required. A negative tokenDuration yields an already
// expired token, which is occasionally useful in tests.
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, ErrInvalidTokenParams
	}

	now := time.Now()
	expiresAt := now.Add(tokenDuration)
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{SignedString: signed, UserID: userID, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// ValidateAndParseJWTToken checks signature, issuer and expiry of tokenString
// and returns the user it was issued for.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := subjectToUserID(claims.Subject)
	if err != nil {
		return models.Token{}, err
	}

	token := models.Token{SignedString: tokenString, UserID: userID}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

// ParseBearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidAuthorization
	}
	return strings.TrimSpace(token), nil
}

// ParseUserIDFromJWT reads the subject without verifying the signature.
// The client uses it to learn which user a configured token belongs to;
// the server always verifies.
func ParseUserIDFromJWT(tokenString string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnexpectedTokenClaims, err)
	}
	return subjectToUserID(sub)
}

func subjectToUserID(sub string) (int64, error) {
	if sub == "" {
		return 0, ErrEmptySubject
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting subject to user id: %w", err)
	}
	return userID, nil
}
