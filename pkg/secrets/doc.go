// Package secrets owns signing key material: the HMAC and HKDF primitives used
// to sign tokens, and the KeyStore that maps key ids (kids) to secrets and
// tracks the current signing key.
//
// # Primitives
//
//   - HMACSHA256 computes a 32-byte tag.
//   - Equal compares lengths first, then bytes in constant time.
//   - HKDFSHA256 implements RFC 5869 via golang.org/x/crypto/hkdf. Output length
//     must be 16..64 bytes, otherwise ErrInvalidParameter is returned.
//   - RandomID returns URL-safe random identifiers for kids and token ids.
//
// # KeyStore
//
// Every secret is at least MinSecretSize (32) bytes and the current kid always
// has a secret; violations fail eagerly with ErrInvalidConfiguration. Secrets are
// copied on the way in and out, so callers never alias store memory.
//
//	ks, err := secrets.FromHex(map[string]string{"2024-01": hexSecret}, "2024-01")
//	if err != nil {
//	    // handle error
//	}
//
//	// rotation: new kid becomes current, the old one keeps verifying
//	newSecret, _ := secrets.GenerateKey()
//	_ = ks.Rotate("2024-06", newSecret)
//	// ...once all 2024-01 tokens have expired
//	_ = ks.RemoveKey("2024-01")
//
// Stores can also be loaded from a YAML key file (LoadKeyFile) or from
// environment variables (Config + NewFromConfig).
//
// # Error Handling
//
// All errors wrap one of the package sentinels; match them with errors.Is.
package secrets
