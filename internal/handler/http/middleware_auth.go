// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/golang-jwt/jwt/v5"
)

// authenticate verifies the bearer token and stores its subject under
// utils.UserIDCtxKey. Every failure is a 401 with the unauthorized code.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, ErrEmptyAuthorizationHeader.Error())
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, err.Error())
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.auth.TokenSignKey, h.auth.TokenIssuer)
		if err != nil {
			msg := http.StatusText(http.StatusUnauthorized)
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			log.Err(err).Msg("error occurred during parsing token")
			utils.WriteError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), token.UserID)))
	})
}
