package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutOpenDelete(t *testing.T) {
	s := NewFSStore(afero.NewMemMapFs())
	ctx := context.Background()

	n, err := s.Put(ctx, "submissions/1/a.zip", strings.NewReader("PK-data"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	rc, err := s.Open(ctx, "submissions/1/a.zip")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "PK-data", string(data))

	// Overwrite replaces content.
	_, err = s.Put(ctx, "submissions/1/a.zip", strings.NewReader("v2"))
	require.NoError(t, err)
	rc, err = s.Open(ctx, "submissions/1/a.zip")
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "v2", string(data))

	require.NoError(t, s.Delete(ctx, "submissions/1/a.zip"))
	_, err = s.Open(ctx, "submissions/1/a.zip")
	assert.True(t, errors.Is(err, ErrNotExist))

	// Deleting again is fine.
	assert.NoError(t, s.Delete(ctx, "submissions/1/a.zip"))
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewFSStore(fsys)
	_, err := s.Put(context.Background(), "k/x.zip", strings.NewReader("x"))
	require.NoError(t, err)

	entries, err := afero.ReadDir(fsys, "k")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.zip", entries[0].Name())
}

func TestInvalidKeys(t *testing.T) {
	s := NewFSStore(afero.NewMemMapFs())
	ctx := context.Background()
	for _, key := range []string{"", "/abs", "..", "../up", "a/../../b", `a\b`, "."} {
		_, err := s.Put(ctx, key, strings.NewReader("x"))
		var inv *ErrInvalidKey
		assert.True(t, errors.As(err, &inv), "key %q", key)
	}
}

func TestCanceledContext(t *testing.T) {
	s := NewFSStore(afero.NewMemMapFs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Put(ctx, "a", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewKey(t *testing.T) {
	a := NewKey("submissions/7", ".zip")
	b := NewKey("submissions/7", ".zip")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "submissions/7/"))
	assert.True(t, strings.HasSuffix(a, ".zip"))
	_, err := cleanKey(a)
	assert.NoError(t, err)
}

func TestDirStore(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = s.Put(ctx, "a/b.zip", strings.NewReader("hello"))
	require.NoError(t, err)
	rc, err := s.Open(ctx, "a/b.zip")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(data))
}
