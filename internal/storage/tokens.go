// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable client-side persistence: the
// session token store and the local activity journal.
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/docvault-tui/internal/util"
)

// Token store constants.
const (
	// tokensFileName is the file under the app directory holding the
	// encrypted token pair.
	tokensFileName = "tokens.enc"

	// keyIterations is the PBKDF2 iteration count for deriving the
	// file encryption key.
	keyIterations = 100000

	// keySize is the AES-256 key size in bytes.
	keySize = 32

	// nonceSize is the AES-GCM nonce size in bytes.
	nonceSize = 12
)

var (
	// ErrNoTokens indicates no token pair is stored.
	ErrNoTokens = errors.New("no stored tokens")

	// ErrCorruptTokens indicates the token file exists but cannot be
	// decrypted or parsed. Treat as logged out; the file is replaced
	// on the next login.
	ErrCorruptTokens = errors.New("stored tokens are corrupt")
)

// TokenPair is the persisted access/refresh pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Empty reports whether the pair holds no tokens.
func (p TokenPair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// tokenFile is the JSON payload encrypted into the token file.
type tokenFile struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	SavedAt time.Time `json:"saved_at"`
}

// =============================================================================
// TOKEN STORE
// =============================================================================

// TokenStore persists the session token pair, encrypted at rest, and
// keeps an in-memory mirror for fast access. Save and Clear mutate
// memory and disk together: if the disk write fails the in-memory
// state is left unchanged.
//
// TokenStore is safe for concurrent use.
type TokenStore struct {
	mu   sync.RWMutex
	dir  string
	key  []byte
	pair TokenPair
}

// NewTokenStore creates a token store rooted at dir (created if
// missing) and loads any previously persisted pair. A corrupt token
// file is reported via ErrCorruptTokens but the store is still
// usable; it simply starts logged out.
func NewTokenStore(dir string) (*TokenStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	s := &TokenStore{
		dir: dir,
		key: deriveFileKey(),
	}

	pair, err := s.readFile()
	switch {
	case err == nil:
		s.pair = pair
	case errors.Is(err, ErrNoTokens):
		// First run, nothing stored yet.
	case errors.Is(err, ErrCorruptTokens):
		return s, err
	default:
		return nil, err
	}
	return s, nil
}

// AccessToken returns the current access token, or "" when logged
// out. Implements api.TokenSource.
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Access
}

// Pair returns a snapshot of the stored token pair.
func (s *TokenStore) Pair() TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// HasTokens reports whether a token pair is present.
func (s *TokenStore) HasTokens() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.pair.Empty()
}

// Save persists a new token pair. Disk first, then memory.
func (s *TokenStore) Save(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(pair); err != nil {
		return err
	}
	s.pair = pair
	return nil
}

// Clear removes the stored token pair. Disk first, then memory.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, tokensFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	s.pair = TokenPair{}
	return nil
}

// =============================================================================
// ENCRYPTED FILE I/O
// =============================================================================

// writeFile encrypts and atomically writes the token pair.
func (s *TokenStore) writeFile(pair TokenPair) error {
	plaintext, err := json.Marshal(tokenFile{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	gcm, err := s.aead()
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)

	path := filepath.Join(s.dir, tokensFileName)
	if err := util.AtomicWriteFile(path, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// readFile loads and decrypts the persisted token pair.
func (s *TokenStore) readFile() (TokenPair, error) {
	path := filepath.Join(s.dir, tokensFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return TokenPair{}, ErrNoTokens
		}
		return TokenPair{}, fmt.Errorf("failed to read token file: %w", err)
	}

	if len(data) < nonceSize+1 {
		return TokenPair{}, ErrCorruptTokens
	}

	gcm, err := s.aead()
	if err != nil {
		return TokenPair{}, err
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return TokenPair{}, ErrCorruptTokens
	}

	var tf tokenFile
	if err := json.Unmarshal(plaintext, &tf); err != nil {
		return TokenPair{}, ErrCorruptTokens
	}
	return TokenPair{Access: tf.Access, Refresh: tf.Refresh}, nil
}

// aead builds the AES-256-GCM cipher for the store's key.
func (s *TokenStore) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return gcm, nil
}

// deriveFileKey derives the at-rest encryption key from stable machine
// identity. This keeps tokens unreadable to casual file copying, not
// to an attacker with the same local account.
func deriveFileKey() []byte {
	hostname, _ := os.Hostname()
	uid := ""
	if u, err := user.Current(); err == nil {
		uid = u.Uid
	}
	secret := []byte("docvault-token-store:" + hostname + ":" + uid)
	salt := sha256.Sum256([]byte(hostname + "/" + uid))
	return pbkdf2.Key(secret, salt[:], keyIterations, keySize, sha256.New)
}
