package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/hel-repo/hel/internal/config"
)

func testConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Secret = secret
	cfg.Auth.SessionTTL = ttl
	return cfg
}

func TestGenerate_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough", 2*time.Minute)

	tokenStr, err := Generate(cfg, "alice", "sess-1")
	require.NoError(t, err)

	c, err := Parse(cfg, tokenStr)
	require.NoError(t, err)
	require.Equal(t, "alice", c.Nickname)
	require.Equal(t, "sess-1", c.SessionID)
}

func TestGenerate_Expiry(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg", time.Second)
	tokenStr, err := Generate(cfg, "bob", "s")
	require.NoError(t, err)
	// wait for expiry
	time.Sleep(2 * time.Second)
	_, err = Parse(cfg, tokenStr)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestParse_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx", 2*time.Minute)
	tokenStr, err := Generate(cfg, "bob", "s")
	require.NoError(t, err)

	_, err = Parse(testConfig("different-secret-xxxxxxxxxxxxxxxx", time.Minute), tokenStr)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(testConfig("x", time.Minute), "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalid)
}

// Rejected when alg=none (unsigned token)
func TestParse_AlgNoneRejected(t *testing.T) {
	enc := base64.RawURLEncoding.EncodeToString
	tok := enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(`{"sub":"u","sid":"s","exp":9999999999}`)) + "."
	_, err := Parse(testConfig("x", time.Minute), tok)
	require.ErrorIs(t, err, ErrInvalid)
}

// Tampering with payload must fail signature verification
func TestParse_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx", 5*time.Minute)
	tokenStr, err := Generate(cfg, "user-t", "s")
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))
	_, err = Parse(cfg, strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestParse_MissingSessionID(t *testing.T) {
	cfg := testConfig("secret-without-sid-xxxxxxxxxxxxxxx", time.Minute)
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	tokenStr, err := jt.SignedString([]byte(cfg.Auth.Secret))
	require.NoError(t, err)
	_, err = Parse(cfg, tokenStr)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestParse_MissingExpiry(t *testing.T) {
	cfg := testConfig("secret-without-exp-xxxxxxxxxxxxxxx", time.Minute)
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"sid": "sess-1",
	})
	tokenStr, err := jt.SignedString([]byte(cfg.Auth.Secret))
	require.NoError(t, err)
	_, err = Parse(cfg, tokenStr)
	require.ErrorIs(t, err, ErrInvalid)
}
