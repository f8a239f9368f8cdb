package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type failingFile struct {
	closeErr error
	closed   bool
}

func (f *failingFile) Write([]byte) (int, error) { return 0, errDiskFull }

func (f *failingFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestFlushClose_ReportsFlushAndCloseErrors(t *testing.T) {
	errClose := errors.New("close failed")
	f := &failingFile{closeErr: errClose}
	w := bufio.NewWriter(f)
	_, err := w.Write([]byte("buffered"))
	require.NoError(t, err)

	err = flushClose(w, f, "recording")
	assert.ErrorIs(t, err, errDiskFull)
	assert.ErrorIs(t, err, errClose)
	assert.Contains(t, err.Error(), "flushing recording")
	assert.True(t, f.closed, "file is closed even when the flush fails")
}

func TestFlushClose_NoErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := bufio.NewWriter(f)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	require.NoError(t, flushClose(w, f, "snapshots"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}
