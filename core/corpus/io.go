// Package corpus is the glue between the filter and its external
// collaborators: it reads line-oriented corpora (one document per
// line, whitespace-separated tokens), applies a stop-word list, and
// scores runs against reference labelings.  Corpus and stop-word
// files may be gzip- or zstd-compressed; the extension decides.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const maxLineBytes = 16 * 1024 * 1024

// Stopwords is the set of tokens dropped during reading.
type Stopwords map[string]struct{}

// Contains reports whether token is a stop word.
func (s Stopwords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Open opens a corpus or stop-word file, transparently decompressing
// .gz and .zst files.
func Open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	switch path.Ext(filename) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", filename, err)
		}
		return &decompressingReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd %s: %w", filename, err)
		}
		rc := zr.IOReadCloser()
		return &decompressingReader{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

type decompressingReader struct {
	io.Reader
	closers []io.Closer
}

func (r *decompressingReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LoadStopwords reads one stop word per line, taking only the first
// column so frequency-annotated lists load as-is.
func LoadStopwords(r io.Reader) (Stopwords, error) {
	stop := make(Stopwords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if fs := strings.Fields(scanner.Text()); len(fs) > 0 {
			stop[strings.ToLower(fs[0])] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stop, nil
}

// ReadDocuments reads one document per line, lowercases the tokens,
// and drops stop words.  Documents that end up empty are kept: the
// filter treats them as a reservoir insertion with no observations.
func ReadDocuments(r io.Reader, stop Stopwords) ([][]string, error) {
	var docs [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		doc := make([]string, 0, len(fields))
		for _, f := range fields {
			token := strings.ToLower(f)
			if !stop.Contains(token) {
				doc = append(doc, token)
			}
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Shuffle permutes docs in place with its own generator, so that a
// run's input order is reproducible from the seed alone.
func Shuffle(docs [][]string, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(docs), func(i, j int) {
		docs[i], docs[j] = docs[j], docs[i]
	})
}
