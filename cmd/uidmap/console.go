package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/poiesic/uidmap/lookup"
	"github.com/urfave/cli/v2"
)

const (
	consolePrompt = "uidmap> "
	consoleHelp   = "Enter 'lookup <ID>' or 'status <ID>' or 'exit'"
)

// lineReader is the part of *readline.Instance the console loop uses.
type lineReader interface {
	Readline() (string, error)
}

func consoleCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver, err := db.NewResolver()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          consolePrompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("getting readline: %w", err)
	}
	defer rl.Close()

	return runConsole(c.Context, resolver, rl, c.App.Writer)
}

// runConsole reads commands until exit, EOF or interrupt. Bad input is
// reported and the loop continues.
func runConsole(ctx context.Context, resolver *lookup.Resolver, in lineReader, out io.Writer) error {
	fmt.Fprintln(out, consoleHelp)
	for {
		line, err := in.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading line: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch {
		case len(parts) == 1 && strings.EqualFold(parts[0], "exit"):
			return nil
		case len(parts) == 2 && strings.EqualFold(parts[0], "lookup"):
			consoleLookup(ctx, resolver, parts[1], out)
		case len(parts) == 2 && strings.EqualFold(parts[0], "status"):
			consoleStatus(ctx, resolver, parts[1], out)
		default:
			fmt.Fprintln(out, "Error: Invalid command. Use 'lookup <ID>' or 'status <ID>'.")
		}
	}
}

func consoleLookup(ctx context.Context, resolver *lookup.Resolver, id string, out io.Writer) {
	res, err := resolver.Resolve(ctx, id)
	switch {
	case errors.Is(err, lookup.ErrNotFound):
		fmt.Fprintf(out, "NOT FOUND: ID %s does not exist\n", id)
		return
	case err != nil:
		fmt.Fprintf(out, "ERROR: %v\n", err)
		return
	}
	for _, m := range res.Mappings {
		switch res.Kind {
		case lookup.MatchPrimaryKey:
			fmt.Fprintf(out, "FOUND: uid %s -> phone %s\n", m.PrimaryKey, resolver.FormatPhone(m.AttributeValue))
		case lookup.MatchAttribute:
			fmt.Fprintf(out, "FOUND: phone %s -> uid %s\n", resolver.FormatPhone(m.AttributeValue), m.PrimaryKey)
		}
	}
}

func consoleStatus(ctx context.Context, resolver *lookup.Resolver, id string, out io.Writer) {
	exists, err := resolver.Status(ctx, id)
	switch {
	case err != nil:
		fmt.Fprintf(out, "ERROR: %v\n", err)
	case exists:
		fmt.Fprintf(out, "EXISTS: ID %s\n", id)
	default:
		fmt.Fprintf(out, "NOT FOUND: ID %s\n", id)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".uidmap_history")
}
