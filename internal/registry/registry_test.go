package registry

import (
	"fmt"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookup(t *testing.T) {
	r := New()
	cmd := exec.Command("true")

	require.NoError(t, r.Insert("d1", cmd))

	got, exists := r.Lookup("d1")
	assert.True(t, exists)
	assert.Same(t, cmd, got)

	_, exists = r.Lookup("d2")
	assert.False(t, exists)
}

func TestInsertDuplicateFails(t *testing.T) {
	r := New()

	require.NoError(t, r.Insert("d1", exec.Command("true")))
	err := r.Insert("d1", exec.Command("true"))
	assert.Error(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("d1", exec.Command("true")))

	r.Remove("d1")
	assert.False(t, r.Contains("d1"))

	// Second remove and removing an unknown id are no-ops.
	r.Remove("d1")
	r.Remove("never-existed")
	assert.Equal(t, 0, r.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert("d1", exec.Command("true")))
	require.NoError(t, r.Insert("d2", exec.Command("true")))

	snapshot := r.Snapshot()
	assert.Len(t, snapshot, 2)

	// Mutating the snapshot must not affect the registry.
	delete(snapshot, "d1")
	assert.True(t, r.Contains("d1"))
}

func TestConcurrentAccess(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("job-%d-%d", n, j)
				_ = r.Insert(id, exec.Command("true"))
				r.Contains(id)
				_, _ = r.Lookup(id)
				if j%2 == 0 {
					r.Remove(id)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16*50, r.Len())
}
