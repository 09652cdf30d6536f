package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("Invalid or expired token")

// HostClaims ties a signed token to one room's host identity so the host can
// reclaim the room after dropping their connection.
type HostClaims struct {
	RoomCode string `json:"room"`
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	key      []byte
	tokenAge time.Duration
}

func NewJWTManager(key string, tokenAge time.Duration) *JWTManager {
	return &JWTManager{key: []byte(key), tokenAge: tokenAge}
}

func (m *JWTManager) MintHostToken(roomCode, clientID string) (string, error) {
	claims := HostClaims{
		RoomCode: roomCode,
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenAge)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *JWTManager) VerifyHostToken(token string) (HostClaims, error) {
	claims := HostClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.key, nil
	})
	if err != nil || !parsed.Valid {
		return HostClaims{}, ErrInvalidToken
	}
	return claims, nil
}
