// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials verifies the single admin account configured at startup. The
// password is hashed immediately so the plaintext never outlives
// initialization.
type Credentials struct {
	username     string
	passwordHash []byte
}

// NewCredentials hashes the configured admin password.
func NewCredentials(username, password string, bcryptCost int) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("admin credentials must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	return &Credentials{username: username, passwordHash: hash}, nil
}

// Verify checks a username and password pair. Username comparison is
// constant-time; bcrypt comparison already is.
func (c *Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.username), []byte(username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return userOK && passOK
}
