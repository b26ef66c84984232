// Package search is a small in-process product index. The catalog is loaded on the
// first query and kept for the life of the index.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/richtext"
	"golang.org/x/sync/singleflight"
)

// Loader returns the full product catalog.
type Loader func(ctx context.Context) ([]catalog.Product, error)

const (
	weightTitle       = 3
	weightCategory    = 2
	weightDescription = 1

	DefaultLimit = 20

	// LoadTimeout bounds a catalog load. Loads run detached from the request
	// that started them, since other queries may be waiting on the result.
	LoadTimeout = 15 * time.Second
)

type document struct {
	product     catalog.Product
	title       string
	category    string
	description string
}

// Index answers product searches. Concurrent first queries share one load; a
// failed load is not remembered, so the next query retries it.
type Index struct {
	load  Loader
	group singleflight.Group

	mu   sync.RWMutex
	docs []document
	done bool
}

func NewIndex(load Loader) *Index {
	return &Index{load: load}
}

// Result is one scored match.
type Result struct {
	Product catalog.Product `json:"product"`
	Score   int             `json:"score"`
}

// Search returns products matching every term of query, best first. An empty query matches nothing.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []Result{}, nil
	}
	docs, err := i.documents(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := []Result{}
	for _, doc := range docs {
		if score := doc.score(terms); score > 0 {
			results = append(results, Result{Product: doc.product, Score: score})
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Product.Title < results[b].Product.Title
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Loaded reports whether the catalog has been indexed.
func (i *Index) Loaded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.done
}

// Reset drops the indexed catalog; the next query reloads it.
func (i *Index) Reset() {
	i.mu.Lock()
	i.docs, i.done = nil, false
	i.mu.Unlock()
}

func (i *Index) documents(ctx context.Context) ([]document, error) {
	i.mu.RLock()
	if i.done {
		docs := i.docs
		i.mu.RUnlock()
		return docs, nil
	}
	i.mu.RUnlock()

	ch := i.group.DoChan("catalog", func() (any, error) {
		i.mu.RLock()
		if i.done {
			docs := i.docs
			i.mu.RUnlock()
			return docs, nil
		}
		i.mu.RUnlock()

		loadCtx, cancel := detached(ctx)
		defer cancel()
		docs, err := i.build(loadCtx)
		if err != nil {
			return nil, err
		}
		i.mu.Lock()
		i.docs, i.done = docs, true
		i.mu.Unlock()
		return docs, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]document), nil
	}
}

// Refresh reloads the catalog and swaps it in. A failed reload keeps the
// previous documents.
func (i *Index) Refresh(ctx context.Context) (int, error) {
	v, err, _ := i.group.Do("refresh", func() (any, error) {
		loadCtx, cancel := detached(ctx)
		defer cancel()
		docs, err := i.build(loadCtx)
		if err != nil {
			return 0, err
		}
		i.mu.Lock()
		i.docs, i.done = docs, true
		i.mu.Unlock()
		return len(docs), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
}

func (i *Index) build(ctx context.Context) ([]document, error) {
	products, err := i.load(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]document, 0, len(products))
	for _, p := range products {
		docs = append(docs, document{
			product:     p,
			title:       strings.ToLower(p.Title),
			category:    strings.ToLower(p.Category),
			description: strings.ToLower(richtext.Plain(p.Description)),
		})
	}
	return docs, nil
}

func (d document) score(terms []string) int {
	total := 0
	for _, term := range terms {
		s := 0
		if strings.Contains(d.title, term) {
			s += weightTitle
		}
		if strings.Contains(d.category, term) {
			s += weightCategory
		}
		if strings.Contains(d.description, term) {
			s += weightDescription
		}
		if s == 0 {
			return 0
		}
		total += s
	}
	return total
}

func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]struct{}{}
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
