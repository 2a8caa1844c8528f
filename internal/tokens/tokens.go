package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hel-repo/hel/internal/config"
)

// ErrInvalid is returned for tokens that fail signature, expiry or shape checks.
var ErrInvalid = errors.New("invalid auth token")

// Claims is what the auth cookie carries.
type Claims struct {
	Nickname  string
	SessionID string
}

// Generate creates the signed cookie value for a session of nick.
func Generate(cfg *config.Config, nick, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": nick,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(cfg.Auth.SessionTTL).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.Auth.Secret))
}

// Parse verifies a cookie value produced by Generate.
func Parse(cfg *config.Config, tokenStr string) (Claims, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalid
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	if _, ok := mc["exp"]; !ok {
		return Claims{}, ErrInvalid
	}
	nick, _ := mc["sub"].(string)
	sid, _ := mc["sid"].(string)
	if nick == "" || sid == "" {
		return Claims{}, ErrInvalid
	}
	return Claims{Nickname: nick, SessionID: sid}, nil
}
