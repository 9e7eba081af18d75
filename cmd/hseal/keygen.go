package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrymomot/hseal/pkg/secrets"
)

func keygen(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("keygen", stderr)
	kid := fs.String("kid", "k1", "key id for the new secret")
	format := fs.String("format", "env", "output format: env or yaml")
	rotate := fs.String("rotate", "", "add the key to this YAML key file and make it current")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rotate != "" {
		return rotateKeyFile(*rotate, *kid, stdout)
	}

	store, err := secrets.Generate(*kid)
	if err != nil {
		return err
	}

	switch *format {
	case "env":
		fmt.Fprintf(stdout, "HSEAL_KEYS=%s:%s\nHSEAL_CURRENT_KID=%s\n", *kid, store.ToHex()[*kid], *kid)
	case "yaml":
		out, err := secrets.MarshalKeyFile(store)
		if err != nil {
			return err
		}
		_, _ = stdout.Write(out)
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
	return nil
}

// rotateKeyFile adds a fresh secret under kid and makes it current. Older
// keys stay in the file so tokens they signed keep verifying until removed.
func rotateKeyFile(path, kid string, stdout io.Writer) error {
	store, err := secrets.LoadKeyFile(path)
	if err != nil {
		return err
	}
	if old, ok := store.Secret(kid); ok {
		secrets.Wipe(old)
		return fmt.Errorf("%w: kid %q already exists in %s", errUsage, kid, path)
	}
	secret, err := secrets.GenerateKey()
	if err != nil {
		return err
	}
	defer secrets.Wipe(secret)

	if err := store.Rotate(kid, secret); err != nil {
		return err
	}
	out, err := secrets.MarshalKeyFile(store)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "rotated %s: current kid is %s (%d keys)\n", path, kid, len(store.Kids()))
	return nil
}
