// Package secret holds operator secrets, such as the wallet passphrase,
// in locked memory that is zeroed as soon as it is no longer needed.
package secret

import (
	"runtime"
	"sync"
)

// SecureBytes wraps a sensitive byte slice with mlock and explicit zeroing.
type SecureBytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// New creates a SecureBytes of the given size.
// The memory is locked if the system supports it.
func New(size int) *SecureBytes {
	sb := &SecureBytes{data: make([]byte, size)}

	// Best effort: RLIMIT_MEMLOCK is often zero in containers.
	sb.locked = size > 0 && lockMemory(sb.data) == nil

	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb
}

// Take moves src into secure memory and wipes src.
// The caller must not reuse src afterwards.
func Take(src []byte) *SecureBytes {
	sb := New(len(src))
	copy(sb.data, src)
	Wipe(src)
	return sb
}

// Bytes returns the underlying byte slice.
// Returns nil if the SecureBytes has been destroyed.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsLocked reports whether the memory is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeros the memory and unlocks it.
// Safe to call multiple times.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Wipe(s.data)

	if s.locked {
		_ = unlockMemory(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// Destroyed reports whether Destroy has run.
func (s *SecureBytes) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data == nil
}

// Len returns the length of the data.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
