package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventReleasesAllWaiters(t *testing.T) {
	ev := NewEvent()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			ev.Wait()
			wg.Done()
		}()
	}
	assert.False(t, ev.Set())
	wg.Wait()
	assert.True(t, ev.IsSet())
	assert.True(t, ev.Set())
}
