package crawler

import (
	"sync"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
)

// ResultCollection accumulates article records in link discovery order.
// Workers finishing out of order fill slots reserved up front; slots never
// filled are left out of Records.
type ResultCollection struct {
	mu    sync.Mutex
	slots []slot
}

type slot struct {
	rec    domain.ArticleRecord
	filled bool
}

// NewResultCollection returns an empty collection.
func NewResultCollection() *ResultCollection {
	return &ResultCollection{}
}

// Append adds a record after every slot reserved so far.
func (c *ResultCollection) Append(rec domain.ArticleRecord) {
	c.fill(c.reserve(), rec)
}

func (c *ResultCollection) reserve() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = append(c.slots, slot{})
	return len(c.slots) - 1
}

func (c *ResultCollection) fill(i int, rec domain.ArticleRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.slots) {
		return
	}
	c.slots[i] = slot{rec: rec, filled: true}
}

// Records returns a snapshot of the collected records.
func (c *ResultCollection) Records() []domain.ArticleRecord {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.ArticleRecord, 0, len(c.slots))
	for _, s := range c.slots {
		if s.filled {
			out = append(out, s.rec)
		}
	}
	return out
}

// Len reports how many records have been collected.
func (c *ResultCollection) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, s := range c.slots {
		if s.filled {
			n++
		}
	}
	return n
}

// Dispatched reports how many records were reserved, filled or not. Zero
// means the walk found no article links at all.
func (c *ResultCollection) Dispatched() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}
