// Package base64url implements the canonical, unpadded URL-safe base64
// encoding (RFC 4648 §5) used for every token segment.
//
// Encoding never fails. Decoding is strict: any character outside
// [A-Za-z0-9_-] is rejected before decoding, the input is re-padded to a
// multiple of four, and non-canonical encodings (an impossible length or
// non-zero trailing bits) are rejected with ErrDecode.
//
// # Usage
//
//	import "github.com/dmitrymomot/hseal/pkg/base64url"
//
//	s := base64url.Encode([]byte("hello"))
//	raw, err := base64url.Decode(s)
//	if errors.Is(err, base64url.ErrDecode) {
//	    // malformed input
//	}
package base64url
