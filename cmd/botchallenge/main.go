// Command botchallenge exposes the bot-challenge solver's two CLI
// subcommands: `token` (the full envelope round trip) and `deobfuscator`
// (prints the script after static passes D,E,F,D, before G folds the
// answer). Matches cmd/ytv1/main.go's exit-code convention: 0 success, 1
// any failure.
package main

import (
	"fmt"
	"os"

	"github.com/famomatic/ytv1/internal/botchallenge"
	"github.com/famomatic/ytv1/internal/botchallenge/jsast"
)

const (
	exitCodeSuccess        = 0
	exitCodeGenericFailure = 1
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: botchallenge <token|deobfuscator> <data>")
		os.Exit(exitCodeGenericFailure)
	}

	switch os.Args[1] {
	case "token":
		runToken(os.Args[2])
	case "deobfuscator":
		runDeobfuscator(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(exitCodeGenericFailure)
	}
}

func runToken(data string) {
	token, err := botchallenge.GenerateToken(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		os.Exit(exitCodeGenericFailure)
	}
	fmt.Println(token)
	os.Exit(exitCodeSuccess)
}

func runDeobfuscator(data string) {
	challenge, err := botchallenge.DecodeEnvelope(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deobfuscator: %v\n", err)
		os.Exit(exitCodeGenericFailure)
	}

	prog, err := botchallenge.Deobfuscate(challenge)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deobfuscator: %v\n", err)
		os.Exit(exitCodeGenericFailure)
	}

	fmt.Print(jsast.Print(prog))
	os.Exit(exitCodeSuccess)
}
