package api

import (
	"sync"

	"flight-delay/internal/ml"

	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/mat"
)

// predictionCache maps a feature row to its label for one model. Installing
// a different model empties it.
type predictionCache struct {
	mu    sync.Mutex
	model *ml.TrainedModel
	rows  *lru.Cache[string, int]
}

// newPredictionCache returns nil when size is not positive; a nil cache
// misses every lookup.
func newPredictionCache(size int) (*predictionCache, error) {
	if size <= 0 {
		return nil, nil
	}
	rows, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &predictionCache{rows: rows}, nil
}

func (c *predictionCache) bind(model *ml.TrainedModel) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != model {
		c.rows.Purge()
		c.model = model
	}
}

func (c *predictionCache) get(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	return c.rows.Get(key)
}

func (c *predictionCache) add(key string, label int) {
	if c == nil {
		return
	}
	c.rows.Add(key, label)
}

func (c *predictionCache) len() int {
	if c == nil {
		return 0
	}
	return c.rows.Len()
}

// rowKey encodes row i of a 0/1 indicator matrix.
func rowKey(x mat.Matrix, i int) string {
	_, cols := x.Dims()
	key := make([]byte, cols)
	for j := range key {
		if x.At(i, j) != 0 {
			key[j] = '1'
		} else {
			key[j] = '0'
		}
	}
	return string(key)
}
