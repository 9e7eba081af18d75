package secrets

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeyFile is the on-disk YAML representation of a KeyStore:
//
//	current_kid: k2
//	keys:
//	  k1: 6f1c...   # hex, >= 32 bytes
//	  k2: 9ab0...
type KeyFile struct {
	CurrentKid string            `yaml:"current_kid"`
	Keys       map[string]string `yaml:"keys"`
}

// ParseKeyFile builds a KeyStore from YAML key file contents.
func ParseKeyFile(data []byte) (*KeyStore, error) {
	var kf KeyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, errors.Join(ErrInvalidKeyFile, err)
	}
	if len(kf.Keys) == 0 {
		return nil, fmt.Errorf("%w: no keys defined", ErrInvalidKeyFile)
	}
	if kf.CurrentKid == "" && len(kf.Keys) == 1 {
		for kid := range kf.Keys {
			kf.CurrentKid = kid
		}
	}

	ks, err := FromHex(kf.Keys, kf.CurrentKid)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyFile, err)
	}
	return ks, nil
}

// LoadKeyFile reads and parses the YAML key file at path.
func LoadKeyFile(path string) (*KeyStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyFile, err)
	}
	return ParseKeyFile(data)
}

// MarshalKeyFile renders the store in the YAML key file format.
func MarshalKeyFile(s *KeyStore) ([]byte, error) {
	return yaml.Marshal(KeyFile{
		CurrentKid: s.CurrentKid(),
		Keys:       s.ToHex(),
	})
}
