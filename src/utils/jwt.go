package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"Backend-Inspectrack/src/models"
)

// JWTClaims carries the building scope of every request.
type JWTClaims struct {
	BuildingID string `json:"buildingId"`
	UserID     string `json:"userId"`
	jwt.RegisteredClaims
}

// Session converts the claims into the value passed to store calls.
func (c *JWTClaims) Session() models.Session {
	s := models.Session{BuildingID: c.BuildingID, UserID: c.UserID}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

func GenerateJWT(secret []byte, buildingID, userID string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := JWTClaims{
		BuildingID: buildingID,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateRandomString(16),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func ParseJWT(secret []byte, tokenStr string) (*JWTClaims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("empty token string")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil || token == nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.BuildingID == "" || claims.UserID == "" {
		return nil, errors.New("token is missing buildingId or userId")
	}

	return claims, nil
}

// GenerateRandomString generates a random hex string of specified length
func GenerateRandomString(length int) string {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
