package production

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/transitionx/testutil"
)

func TestFilePersister_RoundTrip(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	_, err = sys.AddAction(testutil.Reduce, "NP")
	require.NoError(t, err)
	data, err := sys.ToBytes()
	require.NoError(t, err)

	p, err := NewFilePersister(filepath.Join(t.TempDir(), "tables"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, p.Save(ctx, "sr", data))

	loaded, err := p.Load(ctx, "sr")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)

	restored, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	require.NoError(t, restored.FromBytes(loaded))
	assert.Equal(t, "REDUCE:NP", restored.DescribeMove(2))
}

func TestFilePersister_Overwrite(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, "t", []byte("one")))
	require.NoError(t, p.Save(ctx, "t", []byte("two")))
	data, err := p.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	matches, err := filepath.Glob(filepath.Join(p.dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files cleaned up")
}

func TestFilePersister_Errors(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, p.Save(ctx, name, nil), ErrInvalidName, name)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, p.Save(cancelled, "t", nil), context.Canceled)
}

func newSQLite(t *testing.T) *SQLitePersister {
	t.Helper()
	p, err := NewSQLitePersister(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSQLitePersister_Versions(t *testing.T) {
	p := newSQLite(t)
	ctx := context.Background()

	first, err := p.SaveVersion(ctx, "parser", []byte("v1"))
	require.NoError(t, err)
	second, err := p.SaveVersion(ctx, "parser", []byte("v2-longer"))
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, "tagger", []byte("t1")))

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, ContentHash([]byte("v1")), first.Hash)
	assert.Len(t, first.Hash, 16)

	data, err := p.Load(ctx, "parser")
	require.NoError(t, err)
	assert.Equal(t, "v2-longer", string(data))

	latest, _, err := p.Latest(ctx, "parser")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, old, err := p.Version(ctx, "parser", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(old))

	versions, err := p.ListVersions(ctx, "parser")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, second.ID, versions[0].ID, "newest first")
	assert.Equal(t, 9, versions[0].Size)
	assert.Equal(t, first.ID, versions[1].ID)

	names, err := p.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"parser", "tagger"}, names)
}

func TestSQLitePersister_NotFound(t *testing.T) {
	p := newSQLite(t)
	ctx := context.Background()

	_, err := p.Load(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = p.Version(ctx, "nothing", "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	versions, err := p.ListVersions(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestPersistersShareInterface(t *testing.T) {
	file, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, p := range []Persister{file, newSQLite(t)} {
		require.NoError(t, p.Save(ctx, "x", []byte("payload")))
		data, err := p.Load(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	}
}

func TestSQLitePersister_CorruptTimestamp(t *testing.T) {
	p := newSQLite(t)
	ctx := context.Background()
	v, err := p.SaveVersion(ctx, "parser", []byte("v1"))
	require.NoError(t, err)
	_, err = p.db.ExecContext(ctx, `UPDATE table_versions SET created_at = 'yesterday' WHERE version_id = ?`, v.ID)
	require.NoError(t, err)

	_, _, err = p.Latest(ctx, "parser")
	assert.ErrorContains(t, err, "bad created_at")
	_, err = p.ListVersions(ctx, "parser")
	assert.ErrorContains(t, err, "bad created_at")
}
