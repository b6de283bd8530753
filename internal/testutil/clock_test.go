package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func TestClock_StartsAtStart(t *testing.T) {
	clock := NewClock(epoch)
	assert.Equal(t, epoch, clock.Now())
}

func TestClock_Advance(t *testing.T) {
	clock := NewClock(epoch)

	assert.Equal(t, epoch.Add(time.Minute), clock.Advance(time.Minute))
	assert.Equal(t, epoch.Add(time.Minute), clock.Now())

	// Never goes backwards
	assert.Equal(t, epoch.Add(time.Minute), clock.Advance(-time.Hour))
}

func TestClock_Reset(t *testing.T) {
	clock := NewClock(epoch)
	clock.Advance(time.Hour)
	clock.Reset()
	assert.Equal(t, epoch, clock.Now())
}

func TestClock_ConcurrentAdvance(t *testing.T) {
	clock := NewClock(epoch)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, epoch.Add(100*time.Second), clock.Now())
}
