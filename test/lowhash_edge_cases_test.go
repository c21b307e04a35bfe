package lowhash_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/lowhash"
)

func TestNewRequiresFunctions(t *testing.T) {
	tbl, err := lowhash.New[string, int](4, nil, lowhash.Equal[string])
	assert.ErrorIs(t, err, lowhash.ErrMissingHashFunc)
	assert.Nil(t, tbl)

	tbl, err = lowhash.New[string, int](4, lowhash.HashString, nil)
	assert.ErrorIs(t, err, lowhash.ErrMissingEqualFunc)
	assert.Nil(t, tbl)
}

func TestNewCapacityErrors(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		opts     []lowhash.Option
		want     error
	}{
		{"Negative", -1, nil, lowhash.ErrInvalidCapacity},
		{"Above_Ceiling", 9, []lowhash.Option{lowhash.WithMaxBuckets(8)}, lowhash.ErrCapacityExceeded},
		{"Bad_Load_Factor", 4, []lowhash.Option{lowhash.WithLoadFactor(0)}, lowhash.ErrInvalidConfig},
		{"Bad_Growth_Factor", 4, []lowhash.Option{lowhash.WithGrowthFactor(1)}, lowhash.ErrInvalidConfig},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := lowhash.New[string, int](tc.capacity, lowhash.HashString, lowhash.Equal[string], tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, tbl)
		})
	}
}

func TestNilTable(t *testing.T) {
	var tbl *lowhash.Table[string, int]

	assert.True(t, tbl.IsEmpty())
	assert.False(t, tbl.Contains("a"))
	assert.Zero(t, tbl.Len())
	assert.Zero(t, tbl.BucketCount())
	_, ok := tbl.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 5, tbl.GetOrDefault("a", 5))
	assert.False(t, tbl.Remove("a"))
	assert.Equal(t, lowhash.Stats{}, tbl.Stats())
	tbl.Clear()

	_, err := tbl.Put("a", 1)
	assert.ErrorIs(t, err, lowhash.ErrNilTable)
	assert.ErrorIs(t, tbl.Destroy(), lowhash.ErrNilTable)

	for range tbl.All() {
		t.Fatal("nil table yielded an entry")
	}
}

func TestDestroy(t *testing.T) {
	tbl, err := lowhash.NewString[int](4)
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_, err := tbl.Put(k, 1)
		require.NoError(t, err)
	}

	require.NoError(t, tbl.Destroy())
	assert.True(t, tbl.IsEmpty())
	assert.False(t, tbl.Contains("a"))
	assert.Zero(t, tbl.BucketCount())
	assert.Equal(t, 9, tbl.GetOrDefault("a", 9))

	_, err = tbl.Put("a", 1)
	assert.ErrorIs(t, err, lowhash.ErrDestroyed)
	assert.ErrorIs(t, tbl.Destroy(), lowhash.ErrDestroyed)
}

func TestDestroyEmpty(t *testing.T) {
	tbl, err := lowhash.NewString[int](0)
	require.NoError(t, err)
	assert.NoError(t, tbl.Destroy())
}

// TestAgainstBuiltinMap runs a random operation sequence against the table
// and a builtin map with a deliberately weak hash so chains stay long.
func TestAgainstBuiltinMap(t *testing.T) {
	weak := func(k int) uint64 { return uint64(k % 7) }
	tbl, err := lowhash.New[int, int](4, weak, lowhash.Equal[int])
	require.NoError(t, err)

	ref := map[int]int{}
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20_000; i++ {
		k := rng.IntN(500)
		switch op := rng.IntN(10); {
		case op < 5:
			_, existed := ref[k]
			inserted, err := tbl.Put(k, i)
			require.NoError(t, err)
			require.Equal(t, !existed, inserted, "op %d put(%d)", i, k)
			ref[k] = i
		case op < 8:
			_, existed := ref[k]
			require.Equal(t, existed, tbl.Remove(k), "op %d remove(%d)", i, k)
			delete(ref, k)
		default:
			want, existed := ref[k]
			got, ok := tbl.Get(k)
			require.Equal(t, existed, ok, "op %d get(%d)", i, k)
			require.Equal(t, want, got)
		}
		require.Equal(t, len(ref), tbl.Len())
	}

	for k, want := range ref {
		got, ok := tbl.Get(k)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestLastWriteWinsThroughResizes(t *testing.T) {
	tbl, err := lowhash.New[uint64, int](4, lowhash.HashUint64, lowhash.Equal[uint64])
	require.NoError(t, err)

	const n = 5000
	for round := 0; round < 3; round++ {
		for i := uint64(0); i < n; i++ {
			_, err := tbl.Put(i, round*n+int(i))
			require.NoError(t, err)
		}
	}

	assert.Equal(t, n, tbl.Len())
	for i := uint64(0); i < n; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok, "entry %d lost", i)
		require.Equal(t, 2*n+int(i), v)
	}
	assert.Greater(t, tbl.Stats().Resizes, uint64(5))
}

type caseless string

func TestCustomEquality(t *testing.T) {
	hash := func(k caseless) uint64 { return lowhash.HashString(strings.ToLower(string(k))) }
	equal := func(a, b caseless) bool { return strings.EqualFold(string(a), string(b)) }

	tbl, err := lowhash.New[caseless, string](0, hash, equal)
	require.NoError(t, err)

	_, err = tbl.Put("Hello", "first")
	require.NoError(t, err)
	inserted, err := tbl.Put("HELLO", "second")
	require.NoError(t, err)
	assert.False(t, inserted)

	v, ok := tbl.Get("hello")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, tbl.Len())
}

type pathKey struct {
	parts []string
}

func TestNonComparableKeys(t *testing.T) {
	hash := func(k pathKey) uint64 { return lowhash.HashString(strings.Join(k.parts, "/")) }
	equal := func(a, b pathKey) bool {
		return strings.Join(a.parts, "/") == strings.Join(b.parts, "/")
	}
	tbl, err := lowhash.New[pathKey, int](0, hash, equal)
	require.NoError(t, err)

	_, err = tbl.Put(pathKey{[]string{"a", "b"}}, 1)
	require.NoError(t, err)
	assert.True(t, tbl.Contains(pathKey{[]string{"a", "b"}}))
	assert.False(t, tbl.Contains(pathKey{[]string{"a"}}))
}

func TestUUIDKeys(t *testing.T) {
	tbl, err := lowhash.New[uuid.UUID, int](0, lowhash.HashUUID, lowhash.Equal[uuid.UUID])
	require.NoError(t, err)

	ids := make([]uuid.UUID, 1000)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := tbl.Put(ids[i], i)
		require.NoError(t, err)
	}
	for i, id := range ids {
		v, ok := tbl.Get(id)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.False(t, tbl.Contains(uuid.New()))
}

func TestStats(t *testing.T) {
	tbl, err := lowhash.New[int, int](4, func(int) uint64 { return 1 }, lowhash.Equal[int], lowhash.WithLoadFactor(1))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := tbl.Put(i, i)
		require.NoError(t, err)
	}

	s := tbl.Stats()
	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, 4, s.Buckets)
	assert.Equal(t, 1.0, s.LoadFactor)
	assert.Equal(t, 4, s.LongestChain)
	assert.Zero(t, s.Resizes)
}

func TestHashHelpers(t *testing.T) {
	assert.Equal(t, lowhash.HashString("abc"), lowhash.HashBytes([]byte("abc")))
	assert.Equal(t, uint64(14695981039346656037), lowhash.HashFNV1a(nil))
	assert.Equal(t, uint64(0xaf63dc4c8601ec8c), lowhash.HashFNV1a([]byte("a")))
	assert.NotEqual(t, lowhash.HashUint64(1), lowhash.HashUint64(2))
	assert.True(t, lowhash.EqualBytes([]byte("x"), []byte("x")))
	assert.False(t, lowhash.EqualBytes([]byte("x"), []byte("y")))
}
