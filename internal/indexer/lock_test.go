package indexer

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexLock(t *testing.T) {
	var lock IndexLock

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire(), "second acquire must fail while held")

	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}

func TestIndexLockConcurrentAcquisition(t *testing.T) {
	var lock IndexLock
	var acquired atomic.Int32
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if lock.TryAcquire() {
				acquired.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}
