package chat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryTryJoinAndSnapshot(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.TryJoin("alice"))
	require.Contains(t, r.Snapshot(""), "alice")
	require.Equal(t, 1, r.Len())
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.TryJoin("alice"))
	require.False(t, r.TryJoin("alice"))
	require.Equal(t, 1, r.Len())
}

func TestRegistryRejectsInvalidName(t *testing.T) {
	r := NewRegistry()

	require.False(t, r.TryJoin(""))
	require.False(t, r.TryJoin("not a name"))
	require.Equal(t, 0, r.Len())
}

func TestRegistryConcurrentTryJoinSingleWinner(t *testing.T) {
	r := NewRegistry()

	const racers = 32
	var wins atomic.Int32
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if r.TryJoin("alice") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, 1, r.Len())
}

func TestRegistryLeaveFreesNameAndIsIdempotent(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.TryJoin("alice"))
	r.Leave("alice")
	require.Equal(t, 0, r.Len())

	// Releasing an absent name is a no-op.
	r.Leave("alice")
	r.Leave("neverjoined")
	require.Equal(t, 0, r.Len())

	// The name is immediately reusable.
	require.True(t, r.TryJoin("alice"))
}

func TestRegistrySnapshotSortedAndExcluding(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"carol", "alice", "bob"} {
		require.True(t, r.TryJoin(name))
	}

	require.Equal(t, []string{"alice", "bob", "carol"}, r.Snapshot(""))
	require.Equal(t, []string{"alice", "carol"}, r.Snapshot("bob"))
	require.Equal(t, []string{"alice", "bob", "carol"}, r.Snapshot("dave"))
}
