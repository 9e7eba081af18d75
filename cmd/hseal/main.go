// Command hseal generates signing keys, signs and inspects HSEAL tokens, and
// runs the demo HTTP service.
//
//	hseal keygen [-kid k1] [-format env|yaml] [-rotate keys.yaml]
//	hseal sign   [-aud api] [-sub user-1] [-ttl 15m] [-nbf 30s] [-data '{"role":"admin"}']
//	hseal verify [-aud api] [-sub user-1] <token|->
//	hseal serve
//
// Keys and settings come from the environment (and ./.env): HSEAL_KEYS,
// HSEAL_CURRENT_KID or HSEAL_KEY_FILE, plus the HSEAL_*, HTTP_*, LOG_*,
// REDIS_*, PG_* and MONGODB_* groups.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

const usage = `usage: hseal <command> [flags]

commands:
  keygen   generate a signing key (or rotate a key file)
  sign     sign a token with the current key
  verify   verify a token and print its payload
  serve    run the demo HTTP service
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "keygen":
		err = keygen(args[1:], stdout, stderr)
	case "sign":
		err = sign(args[1:], stdout, stderr)
	case "verify":
		err = verify(ctx, args[1:], stdin, stdout, stderr)
	case "serve":
		err = serve(ctx, args[1:], stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "hseal: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "hseal %s: %v\n", args[0], err)
		return 2
	}
	fmt.Fprintf(stderr, "hseal %s: %v\n", args[0], err)
	return 1
}

var errUsage = errors.New("invalid usage")

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("hseal "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
