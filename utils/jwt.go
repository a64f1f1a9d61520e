package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tunehub/config"
)

// Token lifetimes. The viewing context deliberately expires well before the
// identity it rides on.
const (
	AuthTokenTTL    = 7 * 24 * time.Hour
	ContextTokenTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// AuthClaims carry only the user id. Role and permissions are re-resolved on
// every request so privilege changes take effect without re-issuing tokens.
type AuthClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// ContextClaims bind a manager's session to one artist. ManagerID pins the
// marker to its owner: a context cookie replayed by another account is
// ignored.
type ContextClaims struct {
	ManagerID uint `json:"manager_id"`
	ArtistID  uint `json:"artist_id"`
	jwt.RegisteredClaims
}

// GenerateAuthToken issues the signed 7-day identity token.
func GenerateAuthToken(userID uint) (string, error) {
	claims := &AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AuthTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseAuthToken verifies signature and expiry. Every failure mode collapses
// into ErrInvalidToken; callers never learn why verification failed.
func ParseAuthToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, keyFunc)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateContextToken issues the signed 24-hour viewing-context marker.
func GenerateContextToken(managerID, artistID uint) (string, error) {
	claims := &ContextClaims{
		ManagerID: managerID,
		ArtistID:  artistID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ContextTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseContextToken verifies a viewing-context marker, with the same uniform
// failure as ParseAuthToken.
func ParseContextToken(tokenString string) (*ContextClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ContextClaims{}, keyFunc)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ContextClaims)
	if !ok || !token.Valid || claims.ManagerID == 0 || claims.ArtistID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return []byte(config.AppConfig.JWTSecret), nil
}
