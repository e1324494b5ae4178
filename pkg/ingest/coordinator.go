// Package ingest keeps the news container populated from the dataset source and serves random articles.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newstag/pkg/domain"
	"github.com/umputun/newstag/pkg/store"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/container.go -pkg mocks -skip-ensure -fmt goimports . Container

// Fetcher retrieves the current dataset batch
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.ArticleRecord, error)
}

// Container is the part of the collection store used for ingestion
type Container interface {
	QueryAll(ctx context.Context) ([]store.Row, error)
	PutMany(ctx context.Context, rows []store.Row) bool
}

// Coordinator populates the container on the first request that finds it empty and
// builds the news mapping for every request. Article ids are 1-based positions in the fetched
// batch, the same keys the mapping uses, so an id served to a client addresses the stored row.
type Coordinator struct {
	fetcher   Fetcher
	container Container
	selector  *Selector

	mu sync.Mutex // serializes the populate-if-empty check and write
}

// Path tells which branch of the feed operation ran
type Path string

// feed paths
const (
	PathCold Path = "cold" // container was empty and got populated
	PathWarm Path = "warm" // container already populated, no writes
)

// Feed is the result of a feed operation
type Feed struct {
	Mapping domain.NewsMapping
	Path    Path
	Written bool // cold path only, all rows written
}

// NewCoordinator makes a coordinator. A nil selector means uniform random selection.
func NewCoordinator(fetcher Fetcher, container Container, selector *Selector) *Coordinator {
	if selector == nil {
		selector = NewSelector()
	}
	return &Coordinator{fetcher: fetcher, container: container, selector: selector}
}

// ServeFeed fetches the dataset batch, populates the container if it is empty and returns
// the mapping of 1-based keys to article text. The fetch always happens, even when the container
// is populated; stored rows are used only as an existence check.
func (c *Coordinator) ServeFeed(ctx context.Context) (Feed, error) {
	records, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return Feed{}, fmt.Errorf("fetch dataset: %w", err)
	}
	lgr.Printf("[DEBUG] news data: %d records", len(records))

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.container.QueryAll(ctx)
	if err != nil {
		return Feed{}, fmt.Errorf("query stored news: %w", err)
	}

	mapping := domain.NewNewsMapping(records)
	if len(existing) > 0 {
		return Feed{Mapping: mapping, Path: PathWarm}, nil
	}

	lgr.Printf("[INFO] news container is empty, storing %d records", len(records))
	rows := make([]store.Row, 0, len(records))
	for _, id := range mapping.Keys() {
		rows = append(rows, store.Row{ID: id, News: mapping[id]})
	}
	written := c.container.PutMany(ctx, rows)
	if !written {
		lgr.Printf("[WARN] some of %d news records were not stored", len(rows))
	}
	return Feed{Mapping: mapping, Path: PathCold, Written: written}, nil
}

// RandomArticle serves the feed and picks one of its articles uniformly at random
func (c *Coordinator) RandomArticle(ctx context.Context) (domain.SelectedArticle, Path, error) {
	feed, err := c.ServeFeed(ctx)
	if err != nil {
		return domain.SelectedArticle{}, "", err
	}
	id, news, err := c.selector.Select(feed.Mapping)
	if err != nil {
		return domain.SelectedArticle{}, feed.Path, err
	}
	return domain.SelectedArticle{ID: id, News: news}, feed.Path, nil
}
