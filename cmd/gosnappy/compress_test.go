package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosnappy/gosnappy"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "input.txt")
	compressed := filepath.Join(dir, "input.txt.sz")
	roundtripped := filepath.Join(dir, "output.txt")

	content := []byte("the gosnappy CLI should round-trip this file exactly")
	require.NoError(t, os.WriteFile(src, content, 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"compress", src, "-o", compressed})
	require.NoError(t, root.ExecuteContext(context.Background()))

	root = newRootCmd()
	root.SetArgs([]string{"decompress", compressed, "-o", roundtripped})
	require.NoError(t, root.ExecuteContext(context.Background()))

	got, err := os.ReadFile(roundtripped)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestCatMultipleFiles(t *testing.T) {
	dir := t.TempDir()

	var files []string
	var want []byte
	for i, s := range []string{"first ", "second ", "third"} {
		path := filepath.Join(dir, fmt.Sprintf("part%d.sz", i))

		var buf []byte
		w := gosnappy.NewBufferedWriter(sliceWriter{&buf})
		_, err := w.Write([]byte(s))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, os.WriteFile(path, buf, 0o644))

		files = append(files, path)
		want = append(want, s...)
	}

	origStdout := os.Stdout
	r, w2, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w2
	defer func() { os.Stdout = origStdout }()

	root := newRootCmd()
	root.SetArgs(append([]string{"cat"}, files...))
	cmdErr := root.ExecuteContext(context.Background())
	w2.Close()
	os.Stdout = origStdout

	got := make([]byte, len(want))
	_, readErr := io.ReadFull(r, got)
	require.NoError(t, readErr)

	require.NoError(t, cmdErr)
	require.Equal(t, want, got)
}

// sliceWriter adapts a *[]byte to io.Writer for tests that need a Writer's
// output without a real file.
type sliceWriter struct{ buf *[]byte }

func (s sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}
