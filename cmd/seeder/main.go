package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
)

var (
	outDir    = flag.String("out", "data", "directory to write dumps into")
	fileCount = flag.Int("files", 3, "number of qbNNN.txt files")
	lineCount = flag.Int("lines", 100000, "mapping lines per file")
	noise     = flag.Float64("noise", 0.05, "fraction of extra lines without a mapping")
	reuse     = flag.Float64("reuse", 0.01, "probability that a line reuses an earlier uid")
	seed      = flag.Uint64("seed", 1, "random seed")
)

var noiseLines = []string{
	"",
	"# export batch",
	"uid----phone",
	"----",
	"13800000000 ---- 10001",
	"account closed",
	"\xff\xfe broken bytes",
}

// generator produces synthetic "<phone>----<uid>" lines.
type generator struct {
	rng     *rand.Rand
	noise   float64
	reuse   float64
	nextUID uint64
}

func newGenerator(seed uint64, noise, reuse float64) *generator {
	return &generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		noise:   noise,
		reuse:   reuse,
		nextUID: 100000,
	}
}

func (g *generator) phone() string {
	return fmt.Sprintf("1%d%09d", 3+g.rng.IntN(7), g.rng.IntN(1_000_000_000))
}

func (g *generator) uid() uint64 {
	if g.nextUID > 100000 && g.rng.Float64() < g.reuse {
		return 100000 + g.rng.Uint64N(g.nextUID-100000)
	}
	g.nextUID++
	return g.nextUID - 1
}

// lines yields n mapping lines with noise lines mixed in.
func (g *generator) lines(n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for range n {
			if g.rng.Float64() < g.noise {
				if !yield(noiseLines[g.rng.IntN(len(noiseLines))]) {
					return
				}
			}
			if !yield(fmt.Sprintf("%s----%d", g.phone(), g.uid())) {
				return
			}
		}
	}
}

func writeLines(w io.Writer, lines iter.Seq[string]) error {
	bw := bufio.NewWriter(w)
	for line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeDumps(dir string, files, perFile int, g *generator) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range files {
		path := filepath.Join(dir, fmt.Sprintf("qb%03d.txt", i+1))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := writeLines(f, g.lines(perFile)); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		slog.Info("wrote dump", "path", path, "lines", perFile)
	}
	return nil
}

func main() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()

	g := newGenerator(*seed, *noise, *reuse)
	if err := writeDumps(*outDir, *fileCount, *lineCount, g); err != nil {
		panic(err)
	}
}
