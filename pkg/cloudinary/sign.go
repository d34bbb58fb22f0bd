// Package cloudinary issues signed upload parameters for the media host.
// The server never talks to the host itself; browsers upload directly with
// the signature and send back the resulting attachment metadata.
package cloudinary

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"surat-portal/config"
)

// ErrNotConfigured means the API secret is missing.
var ErrNotConfigured = errors.New("upload signing is not configured")

// Credentials are handed to the browser for one direct upload.
type Credentials struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
}

// Signer signs upload parameters with the account secret.
type Signer struct {
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewSigner creates a Signer from the upload settings.
func NewSigner(cfg *config.UploadConfig) *Signer {
	return &Signer{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		now:       time.Now,
	}
}

// Sign returns credentials for the given extra parameters (folder,
// public_id, ...). Empty values are left out of the signature.
func (s *Signer) Sign(params map[string]string) (*Credentials, error) {
	if s.apiSecret == "" {
		return nil, ErrNotConfigured
	}

	ts := s.now().Unix()
	all := make(map[string]string, len(params)+1)
	for k, v := range params {
		if v != "" {
			all[k] = v
		}
	}
	all["timestamp"] = strconv.FormatInt(ts, 10)

	return &Credentials{
		Signature: Signature(all, s.apiSecret),
		Timestamp: ts,
		APIKey:    s.apiKey,
		CloudName: s.cloudName,
	}, nil
}

// Signature is the hex SHA-1 of "k1=v1&k2=v2..." (keys sorted) followed by
// the secret.
func Signature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}
