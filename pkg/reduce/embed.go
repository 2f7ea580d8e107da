package reduce

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Config holds the 2-D embedding hyperparameters.
type Config struct {
	NumNeighbors int     // neighborhood size (default 15)
	MinDist      float64 // minimum separation in the embedding (default 0.1)
	Metric       string  // distance metric, only "euclidean" is supported
	Seed         int64   // random seed (default 42)
	Epochs       int     // refinement iterations (default 200)
}

// DefaultConfig returns the standard embedding hyperparameters.
func DefaultConfig() Config {
	return Config{
		NumNeighbors: 15,
		MinDist:      0.1,
		Metric:       "euclidean",
		Seed:         42,
		Epochs:       200,
	}
}

// Embedder maps high-dimensional rows to two dimensions, approximately
// preserving neighborhood structure.
//
// The embedding is initialized with the first two principal components and
// refined by seeded stochastic neighbor attraction with sampled repulsion.
// Output is deterministic for a fixed Config and input.
type Embedder struct {
	cfg Config
}

// NewEmbedder creates an Embedder. Zero fields in cfg are filled with
// defaults.
func NewEmbedder(cfg Config) *Embedder {
	def := DefaultConfig()
	if cfg.NumNeighbors == 0 {
		cfg.NumNeighbors = def.NumNeighbors
	}
	if cfg.MinDist == 0 {
		cfg.MinDist = def.MinDist
	}
	if cfg.Metric == "" {
		cfg.Metric = def.Metric
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = def.Epochs
	}
	return &Embedder{cfg: cfg}
}

// Config returns the effective hyperparameters.
func (e *Embedder) Config() Config { return e.cfg }

// FitTransform embeds the rows of x into 2-D. The result has the same row
// count as x. Fails on degenerate input (fewer than 3 rows or 2 columns,
// unsupported metric, or a rank-deficient initialization).
func (e *Embedder) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if r < 3 {
		return nil, fmt.Errorf("reduce: need at least 3 rows to embed, got %d", r)
	}
	if c < 2 {
		return nil, fmt.Errorf("reduce: need at least 2 columns to embed, got %d", c)
	}
	if e.cfg.Metric != "euclidean" {
		return nil, fmt.Errorf("reduce: unsupported metric %q", e.cfg.Metric)
	}

	k := e.cfg.NumNeighbors
	if k > r-1 {
		k = r - 1
	}
	neighbors := nearestNeighbors(x, k)

	y, err := pcaInit(x)
	if err != nil {
		return nil, err
	}

	// Stochastic refinement: pull points toward their high-dimensional
	// neighbors, push away from sampled non-neighbors.
	rng := rand.New(rand.NewSource(e.cfg.Seed))
	const (
		attract = 0.12
		repel   = 0.04
	)
	for epoch := 0; epoch < e.cfg.Epochs; epoch++ {
		lr := 1.0 - float64(epoch)/float64(e.cfg.Epochs)
		for i := 0; i < r; i++ {
			yi0, yi1 := y.At(i, 0), y.At(i, 1)
			for _, j := range neighbors[i] {
				d0 := y.At(j, 0) - yi0
				d1 := y.At(j, 1) - yi1
				if math.Hypot(d0, d1) <= e.cfg.MinDist {
					continue
				}
				yi0 += lr * attract * d0
				yi1 += lr * attract * d1
			}
			// One sampled repulsion partner per point per epoch.
			if j := rng.Intn(r); j != i {
				d0 := yi0 - y.At(j, 0)
				d1 := yi1 - y.At(j, 1)
				distSq := d0*d0 + d1*d1
				yi0 += lr * repel * d0 / (1 + distSq)
				yi1 += lr * repel * d1 / (1 + distSq)
			}
			y.Set(i, 0, yi0)
			y.Set(i, 1, yi1)
		}
	}
	return y, nil
}

// pcaInit projects centered rows onto the first two principal components
// and scales the result to unit extent.
func pcaInit(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("reduce: principal component decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	if _, nc := vecs.Dims(); nc < 2 {
		return nil, fmt.Errorf("reduce: input has fewer than 2 principal components")
	}

	// Center columns before projecting.
	means := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			means[j] += x.At(i, j)
		}
		means[j] /= float64(r)
	}

	y := mat.NewDense(r, 2, nil)
	maxAbs := 0.0
	for i := 0; i < r; i++ {
		for d := 0; d < 2; d++ {
			sum := 0.0
			for j := 0; j < c; j++ {
				sum += (x.At(i, j) - means[j]) * vecs.At(j, d)
			}
			y.Set(i, d, sum)
			if a := math.Abs(sum); a > maxAbs {
				maxAbs = a
			}
		}
	}
	if maxAbs > 0 {
		y.Scale(1/maxAbs, y)
	}
	return y, nil
}

// nearestNeighbors returns, for each row, the indices of its k nearest
// rows by euclidean distance.
func nearestNeighbors(x mat.Matrix, k int) [][]int {
	r, c := x.Dims()
	out := make([][]int, r)
	type cand struct {
		idx  int
		dist float64
	}
	for i := 0; i < r; i++ {
		cands := make([]cand, 0, r-1)
		for j := 0; j < r; j++ {
			if j == i {
				continue
			}
			sum := 0.0
			for m := 0; m < c; m++ {
				d := x.At(i, m) - x.At(j, m)
				sum += d * d
			}
			cands = append(cands, cand{j, sum})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].idx < cands[b].idx
		})
		ids := make([]int, k)
		for n := 0; n < k; n++ {
			ids[n] = cands[n].idx
		}
		out[i] = ids
	}
	return out
}
