package cache

import (
	"container/list"
	"sync"
)

// ImageLRU caches rendered images keyed by namespace and key. The preview
// server uses the base URL as namespace and the page id as key.
type ImageLRU struct {
	capacity int
	items    map[compositeKey]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

type compositeKey struct {
	namespace string
	key       string
}

type entry struct {
	id    compositeKey
	value []byte
}

// NewImageLRU creates a cache holding at most capacity images. A capacity
// below one disables caching.
func NewImageLRU(capacity int) *ImageLRU {
	return &ImageLRU{
		capacity: capacity,
		items:    make(map[compositeKey]*list.Element),
		queue:    list.New(),
	}
}

// Set adds or replaces the image stored under namespace and key
func (c *ImageLRU) Set(namespace, key string, value []byte) {
	if c.capacity < 1 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := compositeKey{namespace: namespace, key: key}
	if element, exists := c.items[id]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry).value = value
		return
	}

	c.items[id] = c.queue.PushFront(&entry{id: id, value: value})
	for c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get returns the image stored under namespace and key and marks it as
// recently used.
func (c *ImageLRU) Get(namespace, key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[compositeKey{namespace: namespace, key: key}]
	if !exists {
		return nil, false
	}

	c.queue.MoveToFront(element)
	return element.Value.(*entry).value, true
}

// Size returns the current number of cached images
func (c *ImageLRU) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

// evict drops the least recently used image. Callers hold the mutex.
func (c *ImageLRU) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}
	c.queue.Remove(element)
	delete(c.items, element.Value.(*entry).id)
}
