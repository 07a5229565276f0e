// Package canonicalize provides RFC 8785 (JSON Canonicalization Scheme) compliant
// serialization and SHA-256 content addressing for veristate artifacts.
//
// Every hash in the system is computed over canonical bytes produced here, so
// the same logical value always yields the same digest regardless of map key
// order, numeric literal form (1 vs 1.0), or negative-zero representation.
// The actual RFC 8785 transform (UTF-16 key sorting, shortest round-trippable
// ES6 number rendering, mandatory-only string escaping) is delegated to
// github.com/gowebpki/jcs rather than reimplemented; cross-process hash
// agreement depends on its exact comparator and number formatter.
package canonicalize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// JCS returns the RFC 8785 canonical JSON representation of v.
//
// v may be any JSON-marshalable value: maps, slices, structs with json tags,
// json.RawMessage, or primitives. The value is first marshaled to plain JSON
// and then run through the JCS transform, which re-sorts object keys by
// UTF-16 code units, normalizes number rendering (-0 becomes 0), and undoes
// the HTML escaping that encoding/json applies.
func JCS(v interface{}) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jcs: pre-marshal failed: %w", err)
	}

	canonical, err := jcs.Transform(intermediate)
	if err != nil {
		return nil, fmt.Errorf("jcs: transform failed: %w", err)
	}
	return canonical, nil
}

// JCSString returns the JCS canonical form as a string.
func JCSString(v interface{}) (string, error) {
	data, err := JCS(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CanonicalHash returns the SHA-256 hex digest of the canonical JSON
// representation of v.
func CanonicalHash(v interface{}) (string, error) {
	b, err := JCS(v)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// HashBytes computes the SHA-256 hash of raw bytes and returns it as a
// 64-character lowercase hex string.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashString is HashBytes over the UTF-8 bytes of s.
func HashString(s string) string {
	return HashBytes([]byte(s))
}
