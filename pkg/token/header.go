package token

import "fmt"

// Fixed header values of the wire format.
const (
	Algorithm = "HS256"
	Type      = "HSEAL"
	Version   = 1
)

const (
	headerAlg = "alg"
	headerTyp = "typ"
	headerKid = "kid"
	headerVer = "ver"
)

func isReservedHeader(key string) bool {
	switch key {
	case headerAlg, headerTyp, headerKid, headerVer:
		return true
	}
	return false
}

// buildHeader assembles the reserved fields followed by caller extras.
// Extras may not redefine reserved fields.
func buildHeader(kid string, extra *Map) (*Map, error) {
	h := NewMap().
		SetString(headerAlg, Algorithm).
		SetString(headerTyp, Type).
		SetString(headerKid, kid).
		Set(headerVer, Int(Version))

	for k, v := range extra.All() {
		if isReservedHeader(k) {
			return nil, fmt.Errorf("%w: header field %q is reserved", ErrInvalidParameter, k)
		}
		h.Set(k, v)
	}
	return h, nil
}

// headerKidOf validates the fixed header fields and returns the kid.
func headerKidOf(h *Map) (string, error) {
	if alg, _ := h.GetString(headerAlg); alg != Algorithm {
		return "", fmt.Errorf("%w: unsupported alg", ErrMalformedToken)
	}
	if typ, _ := h.GetString(headerTyp); typ != Type {
		return "", fmt.Errorf("%w: unsupported typ", ErrMalformedToken)
	}
	ver, _ := h.Get(headerVer)
	if n, ok := ver.AsInt(); !ok || n != Version {
		return "", fmt.Errorf("%w: unsupported ver", ErrMalformedToken)
	}
	kid, ok := h.GetString(headerKid)
	if !ok || kid == "" {
		return "", fmt.Errorf("%w: missing kid", ErrMalformedToken)
	}
	return kid, nil
}
