// Package urlhash derives the stable identity hash for a bookmark from its
// URL. The normalization rules here are part of the service's public
// contract: changing them would re-key every stored bookmark.
package urlhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/bindlehq/bindle/internal/model"
)

// HashLen is the length of the hexadecimal identity digest.
const HashLen = 14

// Normalize canonicalizes a URL just enough to make hashing stable:
// scheme and host are lowercased, default ports stripped, duplicate
// slashes in the path collapsed. Path and query keep their case and
// ordering as given; query parameters are never re-sorted.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: No url provided", model.ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable url %q", model.ErrValidation, raw)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: url %q missing scheme or host", model.ErrValidation, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = stripDefaultPort(u.Scheme, strings.ToLower(u.Host))
	u.Path = collapseSlashes(u.Path)

	return u.String(), nil
}

// Hash returns the identity digest for a URL: the first HashLen hex
// characters of SHA-256 over the normalized form. Pure and deterministic;
// Hash("http://google.com") is always "aa2239c17609b2".
func Hash(raw string) (string, error) {
	norm, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])[:HashLen], nil
}

func stripDefaultPort(scheme, host string) string {
	switch scheme {
	case "http":
		return strings.TrimSuffix(host, ":80")
	case "https":
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
