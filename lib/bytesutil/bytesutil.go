// Package bytesutil provides zero-copy conversions between []byte and string.
package bytesutil

import "unsafe"

// ToUnsafeBytes converts s to a []byte without copying.
//
// The returned slice must not be mutated, and must not outlive s.
func ToUnsafeBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// ToUnsafeString converts b to a string without copying.
//
// The caller must not mutate b after the call, since mutations would be
// observed through the returned string.
func ToUnsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
