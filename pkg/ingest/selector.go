package ingest

import (
	"errors"
	"math/rand/v2"

	"github.com/umputun/newstag/pkg/domain"
)

// ErrEmptyFeed is returned when there is nothing to select from
var ErrEmptyFeed = errors.New("no news available")

// Selector picks one article from a news mapping with equal probability
type Selector struct {
	intn func(n int) int
}

// NewSelector makes a selector backed by the global random source
func NewSelector() *Selector {
	return &Selector{intn: rand.IntN}
}

// Select returns the key and text of a uniformly chosen entry
func (s *Selector) Select(mapping domain.NewsMapping) (id int64, news string, err error) {
	if len(mapping) == 0 {
		return 0, "", ErrEmptyFeed
	}
	keys := mapping.Keys()
	id = keys[s.intn(len(keys))]
	return id, mapping[id], nil
}
