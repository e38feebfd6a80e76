// Package hasher derives stored password hashes with Argon2id.
package hasher

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/argon2"
)

// Argon2HasherOptArgs are the optional arguments for building an Argon2Hasher.
type Argon2HasherOptArgs = func(*Argon2Hasher)

// WithParams overrides every Argon2id parameter.
func WithParams(params argon2id.Params) Argon2HasherOptArgs {
	return func(h *Argon2Hasher) {
		h.params = params
	}
}

// WithIterations overrides the time cost. Tests use 1.
func WithIterations(iterations uint32) Argon2HasherOptArgs {
	return func(h *Argon2Hasher) {
		h.params.Iterations = iterations
	}
}

// WithMemory overrides the memory cost, in KiB.
func WithMemory(memory uint32) Argon2HasherOptArgs {
	return func(h *Argon2Hasher) {
		h.params.Memory = memory
	}
}

// NewArgon2Hasher creates a hasher starting from argon2id.DefaultParams.
func NewArgon2Hasher(optArgs ...Argon2HasherOptArgs) (*Argon2Hasher, error) {
	h := &Argon2Hasher{params: *argon2id.DefaultParams}
	for _, opt := range optArgs {
		opt(h)
	}
	if h.params.Iterations == 0 || h.params.Memory == 0 || h.params.Parallelism == 0 || h.params.KeyLength == 0 {
		return nil, errors.New("argon2id iterations, memory, parallelism and key length must be positive")
	}
	return h, nil
}

// Argon2Hasher hashes secrets with the caller's identity as salt. The same
// (id, secret) pair always yields the same digest.
type Argon2Hasher struct {
	params argon2id.Params
}

// Hash returns the hex-encoded Argon2id key of secret salted with id.
func (h *Argon2Hasher) Hash(id, secret string) (string, error) {
	if id == "" {
		return "", errors.New("empty salt")
	}
	key := argon2.IDKey([]byte(secret), []byte(id), h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	return hex.EncodeToString(key), nil
}

// Verify reports whether secret hashes to digest under id.
func (h *Argon2Hasher) Verify(id, secret, digest string) bool {
	got, err := h.Hash(id, secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(digest)) == 1
}
