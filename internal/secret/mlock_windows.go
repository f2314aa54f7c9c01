//go:build windows

package secret

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// lockMemory keeps b out of the page file. b must be non-empty.
func lockMemory(b []byte) error {
	return windows.VirtualLock(uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)))
}

func unlockMemory(b []byte) error {
	return windows.VirtualUnlock(uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)))
}
