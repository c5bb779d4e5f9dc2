package extract

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Decode wraps r so that ill-formed UTF-8 is silently dropped.
//
// Invalid bytes are first replaced with U+FFFD and the replacement runes are
// then removed, so "123\xff----456" reads as "123----456".
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, newDropIllFormed())
}

// DecodeString applies the same policy as Decode to an in-memory string.
func DecodeString(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, _, err := transform.String(newDropIllFormed(), s)
	if err != nil {
		return strings.ToValidUTF8(s, "")
	}
	return out
}

func newDropIllFormed() transform.Transformer {
	return transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)
}
