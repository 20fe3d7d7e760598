package rwlock

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/distfs/naming/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipleReadersConcurrently(t *testing.T) {
	l := New()
	require.NoError(t, l.AcquireRead())
	require.NoError(t, l.AcquireRead())
	l.ReleaseRead()
	l.ReleaseRead()
}

func TestWriterExcludesReaders(t *testing.T) {
	l := New()
	require.NoError(t, l.AcquireWrite())

	acquired := make(chan struct{})
	go func() {
		_ = l.AcquireRead()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("reader acquired while writer held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	l.ReleaseWrite()
	<-acquired
	l.ReleaseRead()
}

// TestWriterPreference mirrors spec.md section 8 scenario 5: A holds a
// shared lock, B requests exclusive, then C requests shared. C must queue
// behind B even though, absent writer preference, C could have been
// granted concurrently with A.
func TestWriterPreference(t *testing.T) {
	l := New()
	require.NoError(t, l.AcquireRead()) // A

	var order []string
	var mu sync.Mutex
	record := func(who string) {
		mu.Lock()
		order = append(order, who)
		mu.Unlock()
	}

	bReady := make(chan struct{})
	go func() {
		require.NoError(t, l.AcquireWrite())
		record("B")
		close(bReady)
	}()

	// Give B a chance to register itself as a waiting writer before C
	// arrives.
	time.Sleep(20 * time.Millisecond)

	cDone := make(chan struct{})
	go func() {
		require.NoError(t, l.AcquireRead())
		record("C")
		close(cDone)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-bReady:
		t.Fatal("B acquired while A still holds the read lock")
	default:
	}
	select {
	case <-cDone:
		t.Fatal("C jumped ahead of waiting writer B")
	default:
	}

	l.ReleaseRead() // A unlocks
	<-bReady
	l.ReleaseWrite()
	<-cDone
	l.ReleaseRead()

	assert.Equal(t, []string{"B", "C"}, order)
}

func TestInterruptUnblocksWaiters(t *testing.T) {
	l := New()
	require.NoError(t, l.AcquireWrite())

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.AcquireRead()
	}()

	time.Sleep(20 * time.Millisecond)
	l.Interrupt()

	err := <-errCh
	var stopped *errs.Stopped
	assert.True(t, errors.As(err, &stopped))
}

func TestResetReadCount(t *testing.T) {
	l := New()
	require.NoError(t, l.AcquireRead())
	l.ReleaseRead()
	require.NoError(t, l.AcquireRead())
	l.ReleaseRead()

	assert.Equal(t, 2, l.ReadsGrantedEver())
	l.ResetReadCount()
	assert.Equal(t, 0, l.ReadsGrantedEver())
}
