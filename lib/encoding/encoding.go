// Package encoding implements the small length-prefixed byte encoding used
// for building composite group keys (the groupby and rmdup drivers).
package encoding

import "encoding/binary"

// MarshalBytes appends the length-prefixed encoding of b to dst and returns
// the extended dst. Length-prefixing (rather than a plain separator byte)
// keeps a value that itself contains the group-by delimiter from colliding
// with a key boundary.
func MarshalBytes(dst []byte, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	dst = append(dst, b...)
	return dst
}
