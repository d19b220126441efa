package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageLRU_SetGet(t *testing.T) {
	c := NewImageLRU(4)

	c.Set("http://example.com", "methods", []byte{1, 2, 3})

	got, ok := c.Get("http://example.com", "methods")
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	_, ok = c.Get("http://localhost:8000", "methods")
	assert.False(t, ok)
}

func TestImageLRU_NamespacesWithSeparators(t *testing.T) {
	// Namespaces containing ':' must not collide with keys.
	c := NewImageLRU(4)

	c.Set("a:b", "c", []byte("first"))
	c.Set("a", "b:c", []byte("second"))

	got, _ := c.Get("a:b", "c")
	assert.Equal(t, []byte("first"), got)
	got, _ = c.Get("a", "b:c")
	assert.Equal(t, []byte("second"), got)
}

func TestImageLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	// Arrange
	c := NewImageLRU(2)
	c.Set("ns", "background", []byte("b"))
	c.Set("ns", "methods", []byte("m"))

	// Act
	_, _ = c.Get("ns", "background")
	c.Set("ns", "results", []byte("r"))

	// Assert
	assert.Equal(t, 2, c.Size())
	_, ok := c.Get("ns", "methods")
	assert.False(t, ok)
	_, ok = c.Get("ns", "background")
	assert.True(t, ok)
	_, ok = c.Get("ns", "results")
	assert.True(t, ok)
}

func TestImageLRU_Replace(t *testing.T) {
	c := NewImageLRU(2)

	c.Set("ns", "future", []byte("old"))
	c.Set("ns", "future", []byte("new"))

	got, ok := c.Get("ns", "future")
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Size())
}

func TestImageLRU_NamespacesAreIndependent(t *testing.T) {
	c := NewImageLRU(8)
	c.Set("one", "background", []byte("1"))
	c.Set("two", "background", []byte("2"))

	one, ok := c.Get("one", "background")
	assert.True(t, ok)
	two, ok := c.Get("two", "background")
	assert.True(t, ok)

	assert.Equal(t, []byte("1"), one)
	assert.Equal(t, []byte("2"), two)
	assert.Equal(t, 2, c.Size())
}

func TestImageLRU_ZeroCapacityDisablesCaching(t *testing.T) {
	c := NewImageLRU(0)

	c.Set("ns", "background", []byte("b"))

	_, ok := c.Get("ns", "background")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestImageLRU_ConcurrentAccess(t *testing.T) {
	c := NewImageLRU(16)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("page-%d", j%20)
				c.Set("ns", key, []byte{byte(n)})
				c.Get("ns", key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 16)
}
