package vectorindex

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	kvector "github.com/kshard/vector"
)

// Match is one search hit. Score is cosine similarity (1 is identical).
type Match struct {
	ID    string
	Score float32
}

// Index is an in-memory cosine HNSW index keyed by string ids.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.HNSW[vector.VF32]
	ids   []string
	vecs  [][]float32
	dim   int
}

func New() *Index {
	return &Index{
		graph: hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine())),
	}
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.ids)
}

// Add inserts vec under id. All vectors must share the first vector's dimension.
func (x *Index) Add(id string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("vector for %s is empty", id)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", x.dim, len(vec))
	}
	key := uint32(len(x.ids))
	x.ids = append(x.ids, id)
	x.vecs = append(x.vecs, vec)
	x.graph.Insert(vector.VF32{Key: key, Vec: vec})
	return nil
}

// Search returns up to k nearest ids, best first.
func (x *Index) Search(query []float32, k int) ([]Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", x.dim, len(query))
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}
	hits := x.graph.Search(vector.VF32{Vec: query}, k, ef)

	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		if int(h.Key) >= len(x.ids) {
			continue
		}
		out = append(out, Match{
			ID:    x.ids[h.Key],
			Score: cosine(query, x.vecs[h.Key]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
