package contracts

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeVerifierReport parses a VerifierReport from a token string
// (plain JSON or Base64-wrapped JSON). The messaging layer that collects
// reports from independent verifiers is free to deliver either form.
func DecodeVerifierReport(token string) (*VerifierReport, error) {
	trimmed := strings.TrimSpace(token)

	// Try plain JSON
	if strings.HasPrefix(trimmed, "{") {
		var r VerifierReport
		if err := json.Unmarshal([]byte(trimmed), &r); err != nil {
			return nil, fmt.Errorf("decode verifier report: %w", err)
		}
		return &r, nil
	}

	// Try Base64
	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode verifier report: not JSON and not base64: %w", err)
	}
	var r VerifierReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode verifier report: %w", err)
	}
	return &r, nil
}

// EncodeVerifierReport serializes the report to a JSON token string.
func EncodeVerifierReport(r *VerifierReport) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode verifier report: %w", err)
	}
	return string(b), nil
}
