// cache/cache.go
//
// Read-result cache.
//
// Context
// -------
// Reads are cached under a fingerprint of the full query shape (table,
// filter, projection, sort, ids, skip, limit); write paths invalidate a
// table's whole key space after a committed write rather than chasing
// individual keys.  The cache therefore tracks, per table, the set of keys
// it holds.  Entries carry a TTL so grant or data changes made outside this
// process age out even without an invalidation signal.
//
// The store is a mutex-guarded LRU over container/list; good for a few
// thousand entries.  It is safe for concurrent use.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/tidemill/datagate/metrics"
)

// Cache is a TTL-aware LRU keyed by query fingerprint, with per-table key
// tracking for bulk invalidation.
type Cache struct {
	mu     sync.Mutex
	cap    int
	ttl    time.Duration
	ll     *list.List
	dict   map[string]*list.Element
	tables map[string]map[string]struct{}
	now    func() time.Time
}

type entry struct {
	key     string
	table   string
	val     any
	expires time.Time
}

// New returns a cache holding up to capacity entries, each valid for ttl.
// Panics on capacity < 1.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity < 1 {
		panic("cache: capacity must be >= 1")
	}
	return &Cache{
		cap:    capacity,
		ttl:    ttl,
		ll:     list.New(),
		dict:   make(map[string]*list.Element, capacity),
		tables: make(map[string]map[string]struct{}),
		now:    time.Now,
	}
}

// Get retrieves a live value and marks it MRU.  Expired entries are evicted
// on access and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.dict[key]
	if !hit {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	e := ele.Value.(entry)
	if c.now().After(e.expires) {
		c.remove(ele)
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	c.ll.MoveToFront(ele)
	metrics.CacheHitsTotal.Inc()
	return e.val, true
}

// Add inserts or refreshes a value under the given table's key space.
func (c *Cache) Add(table, key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{key: key, table: table, val: val, expires: c.now().Add(c.ttl)}
	if ele, hit := c.dict[key]; hit {
		old := ele.Value.(entry)
		if old.table != table {
			c.untrack(old.table, key)
			c.track(table, key)
		}
		ele.Value = e
		c.ll.MoveToFront(ele)
		return
	}

	ele := c.ll.PushFront(e)
	c.dict[key] = ele
	c.track(table, key)
	if c.ll.Len() > c.cap {
		c.remove(c.ll.Back())
	}
}

// InvalidateTable drops every key cached for table.
func (c *Cache) InvalidateTable(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.tables[table]
	if len(keys) == 0 {
		return
	}
	for key := range keys {
		if ele, hit := c.dict[key]; hit {
			c.remove(ele)
		}
	}
	metrics.CacheInvalidationsTotal.Inc()
}

// Len reports current size.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) remove(ele *list.Element) {
	e := ele.Value.(entry)
	c.ll.Remove(ele)
	delete(c.dict, e.key)
	c.untrack(e.table, e.key)
}

func (c *Cache) track(table, key string) {
	keys, ok := c.tables[table]
	if !ok {
		keys = make(map[string]struct{})
		c.tables[table] = keys
	}
	keys[key] = struct{}{}
}

func (c *Cache) untrack(table, key string) {
	if keys, ok := c.tables[table]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.tables, table)
		}
	}
}
