package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Open after Destroy has been called.
var ErrDestroyed = errors.New("secure buffer has been destroyed")

// ErrEmptyValue is returned when protecting a zero-length value, which
// memguard cannot represent.
var ErrEmptyValue = errors.New("cannot protect an empty value")

// SecureBuffer holds one credential encrypted at rest in memory. It wraps a
// memguard.Enclave: the value is sealed with an authenticated cipher, the
// backing pages are mlocked where the platform allows it, and plaintext only
// exists inside the short-lived LockedBuffer that Open returns.
//
// A SecureBuffer is safe for concurrent use. Destroy is idempotent and makes
// every later Open or RevealString fail with ErrDestroyed.
type SecureBuffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// NewSecureBuffer seals the given bytes. memguard takes ownership of the
// slice and wipes it, so the caller's copy is zeroed on return. mlock
// failures (RLIMIT_MEMLOCK) degrade to unlocked pages rather than erroring.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	if len(data) == 0 {
		// memguard panics on zero-length buffers.
		return nil, ErrEmptyValue
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(data)}, nil
}

// NewSecureBufferFromString seals a value that arrived as a string (an HTTP
// response field, a flag). The original string is immutable and cannot be
// wiped; sealing at least keeps every copy made from here on protected.
func NewSecureBufferFromString(value string) (*SecureBuffer, error) {
	return NewSecureBuffer([]byte(value))
}

// Open decrypts the value into a LockedBuffer. The caller must Destroy the
// returned buffer as soon as the plaintext has been used:
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.Bytes())
//
// Open may be called any number of times before Destroy.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return nil, ErrDestroyed
	}
	return s.enclave.Open()
}

// RevealString decrypts the protected value, copies it into a plain Go
// string and immediately wipes the decrypted buffer. The returned string
// lives outside protected memory and cannot be zeroed; call this only at
// the boundary where an API demands a string (environment variables,
// process stdout).
func (s *SecureBuffer) RevealString() (string, error) {
	locked, err := s.Open()
	if err != nil {
		return "", err
	}
	value := string(locked.Bytes())
	locked.Destroy()
	return value, nil
}

// Destroy retires the buffer. The enclave's ciphertext needs no explicit
// wiping, so this only drops the reference and blocks further use; memguard
// key material is purged process-wide by memguard.Purge, not per buffer.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.enclave = nil
	s.destroyed = true
}
