package secrets

import (
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// KeyStore holds named signing secrets and tracks which one signs new tokens.
//
// Readers (Secret, Current, CurrentKid) may run concurrently. Mutations (AddKey,
// Rotate, RemoveKey) take an exclusive lock, so a reader observes either the
// mapping before a rotation or after it, never a partial update. Hosts should
// still serialize rotations from a single writer.
//
// Rotation protocol: add the new kid as current while keeping the old secret
// until every token signed under it has expired, then RemoveKey the old kid.
type KeyStore struct {
	mu         sync.RWMutex
	secrets    map[string][]byte
	currentKid string
}

// NewKeyStore creates a store from kid => secret pairs. currentKid must be one
// of the keys and every secret must be at least MinSecretSize bytes.
func NewKeyStore(secrets map[string][]byte, currentKid string) (*KeyStore, error) {
	if _, ok := secrets[currentKid]; !ok {
		return nil, fmt.Errorf("%w: current kid %q has no secret", ErrInvalidConfiguration, currentKid)
	}

	owned := make(map[string][]byte, len(secrets))
	for kid, secret := range secrets {
		if err := validateKey(kid, secret); err != nil {
			return nil, err
		}
		owned[kid] = slices.Clone(secret)
	}

	return &KeyStore{secrets: owned, currentKid: currentKid}, nil
}

// Generate creates a single-key store with a fresh random secret.
// An empty kid is replaced by a random one.
func Generate(kid string) (*KeyStore, error) {
	if kid == "" {
		id, err := RandomID(DefaultIDSize)
		if err != nil {
			return nil, err
		}
		kid = id
	}

	secret, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	defer Wipe(secret)

	return NewKeyStore(map[string][]byte{kid: secret}, kid)
}

// FromHex creates a store from hex-encoded secrets.
func FromHex(hexByKid map[string]string, currentKid string) (*KeyStore, error) {
	raw := make(map[string][]byte, len(hexByKid))
	for kid, h := range hexByKid {
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hex for key %q", ErrInvalidConfiguration, kid)
		}
		raw[kid] = b
	}
	return NewKeyStore(raw, currentKid)
}

// ToHex exports every secret hex-encoded, keyed by kid.
func (s *KeyStore) ToHex() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.secrets))
	for kid, secret := range s.secrets {
		out[kid] = hex.EncodeToString(secret)
	}
	return out
}

// CurrentKid returns the kid used for new signing operations.
func (s *KeyStore) CurrentKid() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentKid
}

// Secret returns a copy of the secret for kid. It has no side effects.
func (s *KeyStore) Secret(kid string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[kid]
	if !ok {
		return nil, false
	}
	return slices.Clone(secret), true
}

// Current returns the current kid together with a copy of its secret, read
// under a single lock so the pair is always consistent.
func (s *KeyStore) Current() (string, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[s.currentKid]
	if !ok {
		return s.currentKid, nil, false
	}
	return s.currentKid, slices.Clone(secret), true
}

// Kids returns all known key ids in sorted order.
func (s *KeyStore) Kids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.secrets))
}

// AddKey stores secret under kid, overwriting an existing entry. Prefer new kids
// for rotation so tokens signed under the old secret keep verifying.
func (s *KeyStore) AddKey(kid string, secret []byte, makeCurrent bool) error {
	if err := validateKey(kid, secret); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets[kid] = slices.Clone(secret)
	if makeCurrent {
		s.currentKid = kid
	}
	return nil
}

// Rotate adds secret under kid and makes it current.
func (s *KeyStore) Rotate(kid string, secret []byte) error {
	return s.AddKey(kid, secret, true)
}

// RemoveKey retires kid. The current kid cannot be removed; unknown kids are a no-op.
func (s *KeyStore) RemoveKey(kid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kid == s.currentKid {
		return fmt.Errorf("%w: cannot remove current kid %q", ErrInvalidConfiguration, kid)
	}
	if secret, ok := s.secrets[kid]; ok {
		Wipe(secret)
		delete(s.secrets, kid)
	}
	return nil
}

func validateKey(kid string, secret []byte) error {
	if kid == "" {
		return fmt.Errorf("%w: empty kid", ErrInvalidConfiguration)
	}
	if len(secret) < MinSecretSize {
		return fmt.Errorf("%w: secret for key %q has %d bytes, need at least %d",
			ErrInvalidConfiguration, kid, len(secret), MinSecretSize)
	}
	return nil
}
