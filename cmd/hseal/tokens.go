package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/hseal/pkg/config"
	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/secrets"
	"github.com/dmitrymomot/hseal/pkg/token"
)

// newManager builds a replay-free manager from the environment for one-off
// CLI use.
func newManager(log *slog.Logger, opts ...token.Option) (*token.Manager, error) {
	var keyCfg secrets.Config
	if err := config.Load(&keyCfg); err != nil {
		return nil, err
	}
	keys, err := secrets.NewFromConfig(keyCfg)
	if err != nil {
		return nil, err
	}

	var tokenCfg token.Config
	if err := config.Load(&tokenCfg); err != nil {
		return nil, err
	}
	return token.NewFromConfig(keys, tokenCfg, log, opts...)
}

func cliLogger(stderr io.Writer) *slog.Logger {
	return logger.New(logger.WithOutput(stderr), logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelWarn))
}

func sign(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("sign", stderr)
	aud := fs.String("aud", "", "audience")
	sub := fs.String("sub", "", "subject")
	ttl := fs.String("ttl", "", "lifetime, e.g. 900, 15m, 1h (default HSEAL_DEFAULT_TTL)")
	nbf := fs.String("nbf", "", "not valid until this long after issue")
	data := fs.String("data", "", "JSON object stored under data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	m, err := newManager(cliLogger(stderr))
	if err != nil {
		return err
	}

	b := m.Builder().Audience(*aud).Subject(*sub)
	if *ttl != "" {
		b = b.ExpiresIn(token.DurationString(*ttl))
	}
	if *nbf != "" {
		b = b.NotBefore(token.DurationString(*nbf))
	}
	if *data != "" {
		extra := token.NewMap()
		if err := json.Unmarshal([]byte(*data), extra); err != nil {
			return fmt.Errorf("%w: -data must be a JSON object: %v", errUsage, err)
		}
		for k, v := range extra.All() {
			b = b.Data(k, v)
		}
	}

	tok, err := b.Sign()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}

func readToken(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	raw, err := io.ReadAll(io.LimitReader(stdin, 64<<10))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
