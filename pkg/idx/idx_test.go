package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAtAndParse(t *testing.T) {
	id := idx.NewAt(time.Now().UTC())
	require.Len(t, id.String(), 26)

	parsed, err := idx.Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "1700000000000"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())

	require.Less(t, a.String(), b.String())
}

func TestSameMillisecondStaysOrdered(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()

	prev := idx.NewAt(at)
	for range 100 {
		next := idx.NewAt(at)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}
