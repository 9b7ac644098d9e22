// Package etag derives content fingerprints for conditional playlist fetches.
package etag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes payload and returns the body together with its strong
// entity tag. The tag is a quoted SHA-256 of the exact bytes returned, so
// equal payloads always produce equal tags.
func Encode(payload any) (body []byte, tag string, err error) {
	body, err = json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encoding payload: %w", err)
	}
	return body, Of(body), nil
}

// Of returns the quoted fingerprint of body.
func Of(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// Matches reports whether an If-None-Match header value names tag. Weak
// validators and unquoted tags are compared by their opaque value; "*"
// matches any tag.
func Matches(header, tag string) bool {
	header = strings.TrimSpace(header)
	if header == "" || tag == "" {
		return false
	}
	want := opaque(tag)
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if candidate != "" && opaque(candidate) == want {
			return true
		}
	}
	return false
}

func opaque(tag string) string {
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
