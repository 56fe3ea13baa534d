package config

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT signs and verifies game session tokens with HMAC-SHA256.
type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

type GameClaims struct {
	GameSessionId string `json:"game_session_id"`
	jwt.RegisteredClaims
}

// NewJWT uses the configured secret or, when it is empty, a random one that
// lives as long as the process.
func NewJWT(c JWTConfig) (*JWT, error) {
	secret := []byte(c.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate JWT secret: %w", err)
		}
	}

	lifetime := c.TokenLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}

	return j, nil
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}

func (j *JWT) NewGameToken(gameSessionId string) (string, error) {
	now := time.Now()
	claims := &GameClaims{
		GameSessionId: gameSessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameSessionId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return j.Sign(claims)
}

func (j *JWT) ParseGameClaims(tokenString string) (*GameClaims, error) {
	token, err := j.ParseWithClaims(tokenString, &GameClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok || claims.GameSessionId == "" {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
