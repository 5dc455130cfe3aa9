// Package pagecache memoizes note list pages in the web client. Entries are
// keyed by page number and the whole cache is dropped on any note write.
package pagecache

import (
	"sync"
	"time"

	"github.com/crucial707/notehub/internal/models"
)

type entry struct {
	page    models.NotePage
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int]entry
	now     func() time.Time
}

// New returns a cache whose entries live for ttl. A ttl of zero keeps entries
// until the next Clear.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[int]entry), now: time.Now}
}

func (c *Cache) Get(page int) (models.NotePage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[page]
	if !ok {
		return models.NotePage{}, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		delete(c.entries, page)
		return models.NotePage{}, false
	}
	return e.page, true
}

func (c *Cache) Put(page int, p models.NotePage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[page] = entry{page: p, expires: c.now().Add(c.ttl)}
}

// Clear drops every page. Call after each successful create, update or delete.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
