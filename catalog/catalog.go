package catalog

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// TopTenSize is the sample size of RandomTopTen.
const TopTenSize = 10

// Source yields the raw JSON array the catalog is built from.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// Page - one slice of the catalog plus pagination metadata.
// Next and Prev are nil on the last and first page respectively.
type Page struct {
	Page  int
	Pages int
	Next  *int
	Prev  *int
	Count int
	Blogs []Record
}

// Catalog is the immutable, ordered set of blogs. Safe for concurrent use.
type Catalog struct {
	records []Record
	rnd     *lockedRand
}

// Option ...
type Option func(*Catalog)

// WithRandSource replaces the clock-seeded sampling source.
func WithRandSource(src rand.Source) Option {
	return func(c *Catalog) {
		c.rnd = &lockedRand{r: rand.New(src)}
	}
}

// New builds a catalog over a private copy of records.
func New(records []Record, opts ...Option) *Catalog {
	c := &Catalog{
		records: append([]Record(nil), records...),
		rnd:     &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads and parses src once. Every failure is a *StartupLoadError.
func Load(ctx context.Context, src Source, opts ...Option) (*Catalog, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, &StartupLoadError{Source: src.Name(), Cause: err}
	}
	records, err := Parse(data)
	if err != nil {
		return nil, &StartupLoadError{Source: src.Name(), Cause: err}
	}
	return New(records, opts...), nil
}

// Count ...
func (c *Catalog) Count() int {
	return len(c.records)
}

// DefaultLimit is the page size used when the caller gives none: the whole catalog.
func (c *Catalog) DefaultLimit() int {
	if len(c.records) == 0 {
		return 1
	}
	return len(c.records)
}

// TotalPages ...
func TotalPages(count, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := count / limit
	if count%limit > 0 {
		pages++
	}
	return pages
}

// List returns page number page of size limit.
func (c *Catalog) List(page, limit int) (*Page, error) {
	if limit < 1 {
		return nil, &ArgumentError{Name: "limit", Value: strconv.Itoa(limit), Reason: "must be at least 1"}
	}
	count := len(c.records)
	pages := TotalPages(count, limit)
	if page < 1 || page > pages {
		return nil, &InvalidPageError{Page: page, Pages: pages}
	}
	start := (page - 1) * limit
	end := count
	if limit < count-start {
		end = start + limit
	}
	blogs := []Record{}
	if start < end {
		blogs = c.records[start:end:end]
	}
	result := &Page{
		Page:  page,
		Pages: pages,
		Count: count,
		Blogs: blogs,
	}
	if page < pages {
		next := page + 1
		result.Next = &next
	}
	if page > 1 {
		prev := page - 1
		result.Prev = &prev
	}
	return result, nil
}

// RandomTopTen draws TopTenSize distinct records uniformly, in draw order.
func (c *Catalog) RandomTopTen() (*Page, error) {
	count := len(c.records)
	if count < TopTenSize {
		return nil, &InsufficientDataError{Want: TopTenSize, Count: count}
	}
	blogs := make([]Record, 0, TopTenSize)
	for _, idx := range c.rnd.sample(count, TopTenSize) {
		blogs = append(blogs, c.records[idx])
	}
	return &Page{
		Page:  1,
		Pages: 1,
		Count: TopTenSize,
		Blogs: blogs,
	}, nil
}

// GetByID returns the first record whose id equals id.
func (c *Catalog) GetByID(id int64) (Record, error) {
	for _, rec := range c.records {
		if recID, ok := rec.ID(); ok && recID == id {
			return rec, nil
		}
	}
	return Record{}, &NotFoundError{ID: id}
}

// *rand.Rand is not goroutine-safe.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// sample picks k distinct indexes out of [0, n) with a partial Fisher-Yates shuffle.
func (l *lockedRand) sample(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + l.r.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
