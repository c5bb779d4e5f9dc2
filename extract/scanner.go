package extract

import (
	"bufio"
	"io"
	"iter"

	"github.com/poiesic/uidmap/core"
)

const readBufferSize = 64 * 1024

// Scanner streams pairs out of a reader one line at a time.
//
// A pair never spans a newline, so scanning line by line yields exactly the
// pairs Pairs would find in the whole text, without holding the file in
// memory. Lines of any length are supported.
type Scanner struct {
	r       *bufio.Reader
	pending []core.RawPair
	pair    core.RawPair
	lines   int
	err     error
	done    bool
}

// NewScanner returns a Scanner reading from r. The input is passed
// through Decode first.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r: bufio.NewReaderSize(Decode(r), readBufferSize),
	}
}

// Scan advances to the next pair. It returns false at end of input or on a
// read error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	for len(s.pending) == 0 {
		if s.done {
			return false
		}
		line, err := s.r.ReadString('\n')
		if len(line) > 0 {
			s.lines++
			s.pending = appendPairs(s.pending[:0], line)
		}
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			s.done = true
		}
	}
	s.pair = s.pending[0]
	s.pending = s.pending[1:]
	return true
}

// Pair returns the pair found by the last call to Scan.
func (s *Scanner) Pair() core.RawPair {
	return s.pair
}

// Lines returns how many lines have been read so far.
func (s *Scanner) Lines() int {
	return s.lines
}

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error {
	return s.err
}

// ScanPairs streams pairs from r. A read error is yielded once, as the last
// element, with a zero pair.
func ScanPairs(r io.Reader) iter.Seq2[core.RawPair, error] {
	return func(yield func(core.RawPair, error) bool) {
		s := NewScanner(r)
		for s.Scan() {
			if !yield(s.Pair(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(core.RawPair{}, err)
		}
	}
}
