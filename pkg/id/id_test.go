package id

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValidAndUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := New()
		require.True(t, Valid(s), "invalid ulid %q", s)
		assert.False(t, seen[s], "duplicate id %q", s)
		seen[s] = true
	}
}

func TestNewAtSortsByTime(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, NewAt(base.Add(time.Duration(i)*time.Second)))
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	got, err := Time(NewAt(at))
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "got %s want %s", got, at)
}

func TestValidRejectsGarbage(t *testing.T) {
	t.Parallel()

	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-ulid"))
	_, err := Time("nope")
	assert.Error(t, err)
}
