package secrets

import (
	"fmt"
	"strings"
)

// Config describes where signing secrets come from. KeyFile wins over Keys.
type Config struct {
	Keys       string `env:"HSEAL_KEYS"`        // Comma separated kid:hex pairs, e.g. "k1:ab12...,k2:cd34..."
	CurrentKid string `env:"HSEAL_CURRENT_KID"` // Kid used for signing; optional when only one key is configured
	KeyFile    string `env:"HSEAL_KEY_FILE"`    // Path to a YAML key file
}

// NewFromConfig builds a KeyStore from the provided Config.
func NewFromConfig(cfg Config) (*KeyStore, error) {
	if cfg.KeyFile != "" {
		return LoadKeyFile(cfg.KeyFile)
	}

	keys, err := cfg.parseKeys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no signing keys configured, set HSEAL_KEYS or HSEAL_KEY_FILE", ErrInvalidConfiguration)
	}

	current := cfg.CurrentKid
	if current == "" && len(keys) == 1 {
		for kid := range keys {
			current = kid
		}
	}
	return FromHex(keys, current)
}

// parseKeys splits "kid:hex,kid:hex" into a map, trimming whitespace.
func (c Config) parseKeys() (map[string]string, error) {
	if strings.TrimSpace(c.Keys) == "" {
		return nil, nil
	}

	out := make(map[string]string)
	for pair := range strings.SplitSeq(c.Keys, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kid, h, ok := strings.Cut(pair, ":")
		kid, h = strings.TrimSpace(kid), strings.TrimSpace(h)
		if !ok || kid == "" || h == "" {
			return nil, fmt.Errorf("%w: key entry must be kid:hex", ErrInvalidConfiguration)
		}
		if _, dup := out[kid]; dup {
			return nil, fmt.Errorf("%w: duplicate kid %q", ErrInvalidConfiguration, kid)
		}
		out[kid] = h
	}
	return out, nil
}
