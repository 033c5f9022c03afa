package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Storage issues expiring signed URLs for objects held by the managed storage
// backend, and removes objects when their owning rows are deleted. Tokens are
// HMAC-SHA256 over "<object path>:<unix expiry>".
type Storage struct {
	baseURL string
	secret  []byte
	http    *http.Client
	now     func() time.Time
}

func NewStorage(baseURL, secret string) *Storage {
	return &Storage{
		baseURL: baseURL,
		secret:  []byte(secret),
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// SignedURL returns a playback URL valid for expiresIn.
func (s *Storage) SignedURL(bucket, objectPath string, expiresIn time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("storage signing secret not configured")
	}

	expires := s.now().Add(expiresIn).Unix()
	full := path.Join(bucket, objectPath)

	return fmt.Sprintf("%s/%s?expires=%d&token=%s",
		s.baseURL, full, expires, s.sign(full, expires)), nil
}

// VerifySignedURL checks the token and expiry of a previously issued URL.
func (s *Storage) VerifySignedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil || s.now().Unix() > expires {
		return false
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return false
	}
	objectPath := trimPrefixSlash(u.Path, base.Path)

	expected := s.sign(objectPath, expires)
	return hmac.Equal([]byte(expected), []byte(u.Query().Get("token")))
}

// Remove deletes an object from the backend via a short-lived signed DELETE.
func (s *Storage) Remove(bucket, objectPath string) error {
	target, err := s.SignedURL(bucket, objectPath, time.Minute)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodDelete, target, nil)
	if err != nil {
		return err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// ObjectName builds a collision-free storage name for an upload.
func ObjectName(originalName string) string {
	ext := path.Ext(originalName)
	return uuid.NewString() + ext
}

func (s *Storage) sign(objectPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", objectPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func trimPrefixSlash(p, prefix string) string {
	trimmed := p
	if prefix != "" && prefix != "/" && len(p) >= len(prefix) && p[:len(prefix)] == prefix {
		trimmed = p[len(prefix):]
	}
	if len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	return trimmed
}
