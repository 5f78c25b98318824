package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An unreachable redis makes every GET miss, so GetOrLoadJSON always takes
// the load path and the SET failure is swallowed.
func newUnreachableCache() *Cache {
	return New("127.0.0.1:1", "", 0)
}

type view struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetOrLoadJSONRoundtrip(t *testing.T) {
	c := newUnreachableCache()
	defer c.Close()

	out, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute,
		func(ctx context.Context) (*view, error) {
			return &view{Name: "Plomberie", Count: 3}, nil
		})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Plomberie", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestGetOrLoadJSONNilLoadYieldsZeroValue(t *testing.T) {
	c := newUnreachableCache()
	defer c.Close()

	// A loader handing back a nil pointer serializes to "null"; the caller
	// must still receive a dereferenceable pointer.
	out, err := GetOrLoadJSON(c, context.Background(), "k2", time.Minute,
		func(ctx context.Context) (*view, error) {
			return nil, nil
		})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, view{}, *out)
}
