// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random, hex-encoded string
// carrying byteLength bytes of entropy.
//
// # Usage
//
// Used for password-reset tokens. The resulting string is twice byteLength
// characters long.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
