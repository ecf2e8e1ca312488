package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints and checks the HMAC download tokens that guard
// report files. A token embeds the report ID, the stored file path and
// an expiry, so the download endpoint needs no database round trip.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer. A non-positive TTL defaults to
// one day.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Generate returns a token for the report file and its expiry time.
func (s *SignedURLSigner) Generate(reportID, relPath string) (string, time.Time, error) {
	if reportID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("report id and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	path := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	sig := s.sign(reportID, exp, path)
	return strings.Join([]string{reportID, exp, path, sig}, "."), expiresAt, nil
}

// Parse validates a token and returns its embedded metadata. With
// allowExpired set the expiry check is skipped, which cleanup uses to
// resolve paths of stale tokens.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (reportID, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("malformed token")
	}
	reportID, exp, path, sig := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(reportID, exp, path)), []byte(sig)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid token expiry")
	}
	expiresAt = time.Unix(expUnix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}

	raw, err := base64.RawURLEncoding.DecodeString(path)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode token path: %w", err)
	}
	return reportID, string(raw), expiresAt, nil
}

func (s *SignedURLSigner) sign(reportID, exp, path string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", reportID, exp, path)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
