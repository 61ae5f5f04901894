package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# hello"), 0o644))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		path    string
		limit   int64
		want    string
		wantErr error
	}{
		{name: "reads content", ctx: context.Background(), path: path, want: "# hello"},
		{name: "within limit", ctx: context.Background(), path: path, limit: 7, want: "# hello"},
		{name: "over limit", ctx: context.Background(), path: path, limit: 3, wantErr: fsutil.ErrTooLarge},
		{name: "missing", ctx: context.Background(), path: filepath.Join(dir, "nope.md"), wantErr: fsutil.ErrNotFound},
		{name: "directory", ctx: context.Background(), path: dir, wantErr: fsutil.ErrIsDirectory},
		{name: "cancelled", ctx: cancelled, path: path, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.ReadFile(tt.ctx, tt.path, tt.limit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	got, err := fsutil.ReadAll(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got, err = fsutil.ReadAll(strings.NewReader("abc"), 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	_, err = fsutil.ReadAll(strings.NewReader("abcd"), 3)
	require.ErrorIs(t, err, fsutil.ErrTooLarge)
}
