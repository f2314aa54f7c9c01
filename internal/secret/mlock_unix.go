//go:build !windows

package secret

import "golang.org/x/sys/unix"

// lockMemory keeps b out of swap. b must be non-empty.
func lockMemory(b []byte) error {
	return unix.Mlock(b)
}

func unlockMemory(b []byte) error {
	return unix.Munlock(b)
}
