package extract

import (
	"slices"
	"strings"
	"testing"

	"github.com/poiesic/uidmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []core.RawPair
	}{
		{
			name: "single pair",
			text: "5551234----9001\n",
			want: []core.RawPair{{Left: "5551234", Right: "9001"}},
		},
		{
			name: "several pairs keep file order",
			text: "1----2\n3----4\n5----6",
			want: []core.RawPair{{Left: "1", Right: "2"}, {Left: "3", Right: "4"}, {Left: "5", Right: "6"}},
		},
		{
			name: "pairs embedded in noise",
			text: "phone:13800138000----42 ok; x 7----8!",
			want: []core.RawPair{{Left: "13800138000", Right: "42"}, {Left: "7", Right: "8"}},
		},
		{
			name: "two pairs on one line",
			text: "11----22 33----44",
			want: []core.RawPair{{Left: "11", Right: "22"}, {Left: "33", Right: "44"}},
		},
		{
			name: "chained delimiters do not overlap",
			text: "1----2----3",
			want: []core.RawPair{{Left: "1", Right: "2"}},
		},
		{
			name: "three hyphens do not match",
			text: "123---456",
			want: nil,
		},
		{
			name: "five hyphens do not match",
			text: "123-----456",
			want: nil,
		},
		{
			name: "missing right side",
			text: "123----\n----456",
			want: nil,
		},
		{
			name: "non-ascii digits are not digits",
			text: "１２３----456",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Pairs(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPairs_Restartable(t *testing.T) {
	seq := Pairs("1----2\n3----4\n")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestPairs_EarlyStop(t *testing.T) {
	var got []core.RawPair
	for p := range Pairs("1----2 3----4 5----6") {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []core.RawPair{{Left: "1", Right: "2"}, {Left: "3", Right: "4"}}, got)
}

func TestPairs_MatchesLineScan(t *testing.T) {
	text := strings.Repeat("junk 100----200 more 300----400\n", 50) + "tail 9----9"

	whole := slices.Collect(Pairs(text))
	var byLine []core.RawPair
	for _, line := range strings.SplitAfter(text, "\n") {
		byLine = appendPairs(byLine, line)
	}

	assert.Equal(t, whole, byLine)
	assert.Len(t, whole, 101)
}
