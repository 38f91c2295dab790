// Command hash-generator prints bcrypt hashes for credentials, one per line
// of input or per argument. It is used to seed accounts directly in the
// database.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/todo-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hash-generator:", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hasher := auth.NewBcryptHasher(*cost)

	credentials := fs.Args()
	if len(credentials) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				credentials = append(credentials, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	for _, credential := range credentials {
		hash, err := hasher.Hash(credential)
		if err != nil {
			return fmt.Errorf("failed to hash credential: %w", err)
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return nil
}
