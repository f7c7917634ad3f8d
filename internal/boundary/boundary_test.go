package boundary

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Sorted(t *testing.T) {
	s := NewSet([]int{12, 1}, []int{30, 11})
	starts, ends := s.Sorted()
	assert.Equal(t, []int{1, 12}, starts)
	assert.Equal(t, []int{11, 30}, ends)
	assert.Equal(t, 2, s.Len())
}

func TestPunctuationOracle_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantStarts []int
		wantEnds   []int
	}{
		{"single", " Hallo Welt.", []int{1}, []int{12}},
		{"two sentences", " Hallo Welt. Wie geht's?", []int{1, 13}, []int{12, 24}},
		{"unterminated tail", " Hallo Welt. Und dann", []int{1, 13}, []int{12, 21}},
		{"abbreviation", " Das ist z.B. gut.", []int{1}, []int{18}},
		{"ordinal date", " Am 3. Oktober war es.", []int{1}, []int{22}},
		{"lower-case continuation", " Ein Satz. und weiter.", []int{1}, []int{22}},
		{"closing quote", ` Er sagte "Ja." Dann ging er.`, []int{1, 16}, []int{15, 29}},
		{"empty", "", nil, nil},
	}

	o := NewPunctuationOracle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := o.Boundaries(context.Background(), tt.text, "de")
			require.NoError(t, err)
			starts, ends := set.Sorted()
			if tt.wantStarts == nil {
				assert.Empty(t, starts)
				assert.Empty(t, ends)
				return
			}
			assert.Equal(t, tt.wantStarts, starts)
			assert.Equal(t, tt.wantEnds, ends)
		})
	}
}

func TestPunctuationOracle_ExtraAbbreviations(t *testing.T) {
	o := NewPunctuationOracle("Hr.")
	set, err := o.Boundaries(context.Background(), " Hr. Meier kommt.", "de")
	require.NoError(t, err)
	_, ends := set.Sorted()
	assert.Equal(t, []int{17}, ends)
}

type memStore struct {
	entries map[string]Set
	saves   int
}

func (m *memStore) LoadAll(context.Context) (map[string]Set, error) {
	out := make(map[string]Set, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, entries map[string]Set) error {
	m.saves++
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func countingOracle(calls *atomic.Int32) Oracle {
	return OracleFunc(func(ctx context.Context, text, language string) (Set, error) {
		calls.Add(1)
		return NewPunctuationOracle().Boundaries(ctx, text, language)
	})
}

func TestCache_MemoizesByContent(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(countingOracle(&calls), nil)
	ctx := context.Background()

	_, err := c.Lookup(ctx, " Hallo Welt.", "de")
	require.NoError(t, err)
	_, err = c.Lookup(ctx, " Hallo Welt.", "de")
	require.NoError(t, err)
	_, err = c.Lookup(ctx, " Hallo Welt!", "de")
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	hits, misses, size := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 2, size)
}

func TestCache_OracleError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCache(OracleFunc(func(context.Context, string, string) (Set, error) {
		return Set{}, boom
	}), nil)

	_, err := c.Lookup(context.Background(), "x", "de")
	require.ErrorIs(t, err, boom)
	_, _, size := c.Stats()
	assert.Zero(t, size)
}

func TestCache_LoadAndFlush(t *testing.T) {
	ctx := context.Background()
	store := &memStore{entries: map[string]Set{Key(" Alt."): NewSet([]int{1}, []int{5})}}

	var calls atomic.Int32
	c := NewCache(countingOracle(&calls), store)
	require.NoError(t, c.Load(ctx))

	_, err := c.Lookup(ctx, " Alt.", "de")
	require.NoError(t, err)
	assert.Zero(t, calls.Load(), "preloaded entry must not reach the oracle")

	_, err = c.Lookup(ctx, " Neu.", "de")
	require.NoError(t, err)
	require.NoError(t, c.Flush(ctx))
	require.NoError(t, c.Flush(ctx))

	assert.Equal(t, 1, store.saves, "second flush has nothing pending")
	assert.Contains(t, store.entries, Key(" Neu."))
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, map[string]Set{
		"abc": NewSet([]int{1, 13}, []int{12, 24}),
	}))
	require.NoError(t, store.Close())

	store, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, entries, "abc")
	starts, ends := entries["abc"].Sorted()
	assert.Equal(t, []int{1, 13}, starts)
	assert.Equal(t, []int{12, 24}, ends)
}
