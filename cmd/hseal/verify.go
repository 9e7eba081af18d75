package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrymomot/hseal/pkg/token"
)

// verify checks a token without a replay guard, so inspecting a single-use
// token does not consume it.
func verify(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("verify", stderr)
	aud := fs.String("aud", "", "expected audience")
	sub := fs.String("sub", "", "expected subject")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: expected exactly one token argument (use - for stdin)", errUsage)
	}

	tok, err := readToken(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	m, err := newManager(cliLogger(stderr))
	if err != nil {
		return err
	}

	var opts []token.VerifyOption
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "aud":
			opts = append(opts, token.ExpectAudience(*aud))
		case "sub":
			opts = append(opts, token.ExpectSubject(*sub))
		}
	})

	p, err := m.Verify(ctx, tok, opts...)
	if err != nil {
		return err
	}

	raw, err := p.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(stdout)
	return err
}
