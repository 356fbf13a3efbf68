package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zjrosen/panediff/internal/diffview"
)

// stdinArg reads one side of the comparison from standard input.
const stdinArg = "-"

// source is where one side of the comparison comes from.
type source struct {
	path string // absolute path, "" for stdin
	name string
}

func (s source) isFile() bool { return s.path != "" }

// resolveSource turns a command-line argument into a source.
func resolveSource(arg string) (source, error) {
	if arg == stdinArg {
		return source{name: "stdin"}, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return source{}, fmt.Errorf("resolving %s: %w", arg, err)
	}
	return source{path: abs, name: filepath.Base(arg)}, nil
}

// readDocument reads a file source. Stdin content is captured once by the
// caller because it cannot be re-read on reload.
func readDocument(s source, stdin string) (diffview.Document, error) {
	if !s.isFile() {
		return diffview.Document{Content: stdin, DisplayName: s.name}, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return diffview.Document{}, fmt.Errorf("reading %s: %w", s.name, err)
	}
	return diffview.Document{Content: string(data), DisplayName: s.name}, nil
}

// inputLoader reads both sides. Stdin is consumed on creation, so the
// loader can be called again for reloads.
type inputLoader struct {
	left, right source
	stdin       string
}

func newInputLoader(leftArg, rightArg string, stdin io.Reader) (*inputLoader, error) {
	left, err := resolveSource(leftArg)
	if err != nil {
		return nil, err
	}
	right, err := resolveSource(rightArg)
	if err != nil {
		return nil, err
	}

	l := &inputLoader{left: left, right: right}
	if !left.isFile() || !right.isFile() {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		l.stdin = string(data)
	}
	return l, nil
}

// Load reads the current content of both sides.
func (l *inputLoader) Load(_ context.Context) (diffview.Input, error) {
	left, err := readDocument(l.left, l.stdin)
	if err != nil {
		return diffview.Input{}, err
	}
	right, err := readDocument(l.right, l.stdin)
	if err != nil {
		return diffview.Input{}, err
	}
	return diffview.Input{Left: left, Right: right}, nil
}

// watchPaths returns the file-backed paths.
func (l *inputLoader) watchPaths() []string {
	var paths []string
	for _, s := range []source{l.left, l.right} {
		if s.isFile() {
			paths = append(paths, s.path)
		}
	}
	return paths
}
