package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/ingestion"
	"github.com/poiesic/uidmap/lookup"
	"github.com/poiesic/uidmap/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the CLI with args and returns stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"uidmap"}, args...))
	return stdout.String(), stderr.String(), err
}

func findCommand(t *testing.T, name string) *cli.Command {
	t.Helper()
	for _, cmd := range newApp().Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %s not found", name)
	return nil
}

func TestImportCommandFlags(t *testing.T) {
	cmd := findCommand(t, "import")

	t.Run("batch-size defaults to 50000", func(t *testing.T) {
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 50000, batchFlag.Value)
	})

	t.Run("source and pattern defaults", func(t *testing.T) {
		values := map[string]string{}
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok {
				values[f.Name] = f.Value
			}
		}
		assert.Equal(t, "data", values["source-dir"])
		assert.Equal(t, "qb*.txt", values["pattern"])
		assert.Empty(t, values["metrics-file"])
	})
}

func TestGlobalFlags(t *testing.T) {
	values := map[string]string{}
	for _, flag := range newApp().Flags {
		if f, ok := flag.(*cli.StringFlag); ok {
			values[f.Name] = f.Value
		}
	}
	assert.Equal(t, "info", values["log-level"])
	assert.Equal(t, "uid_phone_map.db", values["db"])
	assert.Equal(t, "sqlite", values["backend"])
	assert.Empty(t, values["config"])
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := runApp(t, "--log-level", "loud", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInvalidBackend(t *testing.T) {
	_, _, err := runApp(t, "--backend", "leveldb", "--db", filepath.Join(t.TempDir(), "x"), "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestImportThenQuery(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "qb1.txt"),
		[]byte("5551234----9001\n5555678----9001\n13800138000----9002\n"), 0o644))
	db := filepath.Join(t.TempDir(), "uid_phone_map.db")

	_, stderr, err := runApp(t, "--db", db, "import", "--source-dir", src, "--batch-size", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Imported 2 records so far")
	assert.Contains(t, stderr, "Total records imported: 3")

	stdout, _, err := runApp(t, "--db", db, "lookup", "9001", "13800138000", "404")
	require.NoError(t, err)
	assert.Contains(t, stdout, "found_by_uid")
	assert.Contains(t, stdout, "5555678")
	assert.Contains(t, stdout, "found_by_phone")
	assert.Contains(t, stdout, "+8613800138000")
	assert.Contains(t, stdout, "not_found")

	stdout, _, err = runApp(t, "--db", db, "status", "5555678", "5551234")
	require.NoError(t, err)
	lines := strings.Split(stdout, "\n")
	assert.True(t, containsLine(lines, "5555678", "found"))
	assert.True(t, containsLine(lines, "5551234", "not_found"))

	stdout, _, err = runApp(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mappings")
	assert.Contains(t, stdout, " 2 ")
}

func containsLine(lines []string, parts ...string) bool {
	for _, line := range lines {
		ok := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func TestImportMissingSourceDirFails(t *testing.T) {
	db := filepath.Join(t.TempDir(), "uid_phone_map.db")
	_, _, err := runApp(t, "--db", db, "import",
		"--source-dir", filepath.Join(t.TempDir(), "data"), "--no-fallback")
	require.Error(t, err)
	assert.ErrorIs(t, err, ingestion.ErrSourceDirMissing)
}

func TestImportUsesConfigFile(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "dump1.txt"), []byte("111----1\n"), 0o644))
	store := filepath.Join(t.TempDir(), "store")
	cfgPath := filepath.Join(t.TempDir(), "uidmap.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"source_dir = \""+src+"\"\npattern = \"dump*.txt\"\nbackend = \"badger\"\nstore_path = \""+store+"\"\n"), 0o644))

	_, stderr, err := runApp(t, "--config", cfgPath, "import")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Total records imported: 1")

	s, err := badger.Open(store)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "111", got.AttributeValue)
}

func TestLookupRequiresID(t *testing.T) {
	_, _, err := runApp(t, "--db", filepath.Join(t.TempDir(), "x.db"), "lookup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one ID")
}

// scriptReader feeds canned lines to the console loop.
type scriptReader struct {
	lines []string
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestRunConsole(t *testing.T) {
	ctx := context.Background()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.UpsertBatch(ctx, []core.Mapping{
		{PrimaryKey: "9001", AttributeValue: "13800138000"},
	}))
	resolver, err := lookup.NewResolver(store)
	require.NoError(t, err)

	in := &scriptReader{lines: []string{
		"lookup 9001",
		"LOOKUP 13800138000",
		"status 9001",
		"status 42",
		"lookup 42",
		"",
		"frobnicate",
		"exit",
		"lookup 9001",
	}}
	var out bytes.Buffer
	require.NoError(t, runConsole(ctx, resolver, in, &out))

	got := out.String()
	assert.Contains(t, got, "FOUND: uid 9001 -> phone +8613800138000")
	assert.Contains(t, got, "FOUND: phone +8613800138000 -> uid 9001")
	assert.Contains(t, got, "EXISTS: ID 9001")
	assert.Contains(t, got, "NOT FOUND: ID 42\n")
	assert.Contains(t, got, "NOT FOUND: ID 42 does not exist")
	assert.Contains(t, got, "Error: Invalid command")
	// Input after exit is not read.
	assert.Len(t, in.lines, 1)
}
