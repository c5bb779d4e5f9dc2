package extract

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/poiesic/uidmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectScanner(t *testing.T, r io.Reader) []core.RawPair {
	t.Helper()
	s := NewScanner(r)
	var got []core.RawPair
	for s.Scan() {
		got = append(got, s.Pair())
	}
	require.NoError(t, s.Err())
	return got
}

func TestScanner_SameAsPairs(t *testing.T) {
	text := "a 1----2\nb 3----4 5----6\n\nno pairs here\n7----8"

	got := collectScanner(t, strings.NewReader(text))

	assert.Equal(t, slices.Collect(Pairs(text)), got)
}

func TestScanner_NoTrailingNewline(t *testing.T) {
	got := collectScanner(t, strings.NewReader("5551234----9001"))
	assert.Equal(t, []core.RawPair{{Left: "5551234", Right: "9001"}}, got)
}

func TestScanner_EmptyInput(t *testing.T) {
	s := NewScanner(strings.NewReader(""))
	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())
	assert.Equal(t, 0, s.Lines())
}

func TestScanner_LongLine(t *testing.T) {
	// Longer than the read buffer so the line arrives in several chunks.
	line := strings.Repeat("x", 3*readBufferSize) + "10----20" + strings.Repeat("y", readBufferSize)

	got := collectScanner(t, strings.NewReader(line+"\n30----40\n"))

	assert.Equal(t, []core.RawPair{{Left: "10", Right: "20"}, {Left: "30", Right: "40"}}, got)
}

func TestScanner_IllFormedBytes(t *testing.T) {
	got := collectScanner(t, strings.NewReader("555\xff1234----90\xfe01\n"))
	assert.Equal(t, []core.RawPair{{Left: "5551234", Right: "9001"}}, got)
}

func TestScanner_OneByteReader(t *testing.T) {
	text := "1----2\n33----44\n"
	got := collectScanner(t, iotest.OneByteReader(strings.NewReader(text)))
	assert.Equal(t, []core.RawPair{{Left: "1", Right: "2"}, {Left: "33", Right: "44"}}, got)
}

func TestScanner_Lines(t *testing.T) {
	s := NewScanner(strings.NewReader("1----2\nnothing\n3----4\n"))
	for s.Scan() {
	}
	assert.Equal(t, 3, s.Lines())
}

func TestScanPairs_ReadError(t *testing.T) {
	boom := errors.New("disk read failed")
	r := io.MultiReader(strings.NewReader("1----2\n"), iotest.ErrReader(boom))

	var pairs []core.RawPair
	var gotErr error
	for p, err := range ScanPairs(r) {
		if err != nil {
			gotErr = err
			break
		}
		pairs = append(pairs, p)
	}

	assert.Equal(t, []core.RawPair{{Left: "1", Right: "2"}}, pairs)
	require.ErrorIs(t, gotErr, boom)
}
