package reduce

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMinMaxScalesColumnsIndependently(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		0, 10, 5,
		5, 20, 5,
		10, 30, 5,
	})
	var s MinMax
	y, err := s.FitTransform(x)
	if err != nil {
		t.Fatal(err)
	}

	for j := 0; j < 2; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < 3; i++ {
			v := y.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("y[%d,%d] = %f out of [0, 1]", i, j, v)
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if lo != 0 || hi != 1 {
			t.Errorf("column %d min/max = %f/%f, want 0/1", j, lo, hi)
		}
	}
	// Zero-variance column maps to 0, not NaN.
	for i := 0; i < 3; i++ {
		if v := y.At(i, 2); v != 0 {
			t.Errorf("constant column row %d = %f, want 0", i, v)
		}
	}
}

// emptyMatrix is a mat.Matrix with no rows or columns.
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(int, int) float64 { return 0 }
func (m emptyMatrix) T() mat.Matrix     { return m }

func TestMinMaxDegenerateInput(t *testing.T) {
	var s MinMax
	if _, err := s.FitTransform(emptyMatrix{}); err == nil {
		t.Error("expected error for empty matrix")
	}
}

func TestFromRowsRaggedError(t *testing.T) {
	if _, err := FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected ragged row error")
	}
	if _, err := FromRows(nil); err == nil {
		t.Error("expected empty matrix error")
	}
}

func TestFromToRowsRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	x, err := FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	back := ToRows(x)
	for i := range rows {
		for j := range rows[i] {
			if back[i][j] != rows[i][j] {
				t.Fatalf("round trip [%d][%d] = %f, want %f", i, j, back[i][j], rows[i][j])
			}
		}
	}
}

// twoClusters builds n points split between two well-separated blobs in
// dim dimensions.
func twoClusters(n, dim int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, dim, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		center := 0.0
		if i >= n/2 {
			center = 10.0
			labels[i] = 1
		}
		for j := 0; j < dim; j++ {
			x.Set(i, j, center+rng.NormFloat64()*0.5)
		}
	}
	return x, labels
}

func TestEmbedderShapeAndDeterminism(t *testing.T) {
	x, _ := twoClusters(30, 8, 3)

	a, err := NewEmbedder(DefaultConfig()).FitTransform(x)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := a.Dims(); r != 30 || c != 2 {
		t.Fatalf("dims = %dx%d, want 30x2", r, c)
	}

	b, err := NewEmbedder(DefaultConfig()).FitTransform(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		for j := 0; j < 2; j++ {
			if a.At(i, j) != b.At(i, j) {
				t.Fatalf("embedding not deterministic at [%d,%d]", i, j)
			}
		}
	}
}

func TestEmbedderSeparatesClusters(t *testing.T) {
	x, labels := twoClusters(40, 8, 7)
	y, err := NewEmbedder(DefaultConfig()).FitTransform(x)
	if err != nil {
		t.Fatal(err)
	}

	// Centroid distance between the clusters should dwarf the mean spread
	// within each cluster.
	var c0, c1 [2]float64
	n0, n1 := 0, 0
	for i, l := range labels {
		if l == 0 {
			c0[0] += y.At(i, 0)
			c0[1] += y.At(i, 1)
			n0++
		} else {
			c1[0] += y.At(i, 0)
			c1[1] += y.At(i, 1)
			n1++
		}
	}
	c0[0] /= float64(n0)
	c0[1] /= float64(n0)
	c1[0] /= float64(n1)
	c1[1] /= float64(n1)

	spread := 0.0
	for i, l := range labels {
		c := c0
		if l == 1 {
			c = c1
		}
		spread += math.Hypot(y.At(i, 0)-c[0], y.At(i, 1)-c[1])
	}
	spread /= float64(len(labels))

	sep := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	if sep <= spread {
		t.Errorf("cluster separation %f not greater than mean spread %f", sep, spread)
	}
}

func TestEmbedderDegenerateInput(t *testing.T) {
	e := NewEmbedder(DefaultConfig())
	if _, err := e.FitTransform(mat.NewDense(2, 4, nil)); err == nil {
		t.Error("expected error for fewer than 3 rows")
	}
	if _, err := e.FitTransform(mat.NewDense(5, 1, nil)); err == nil {
		t.Error("expected error for fewer than 2 columns")
	}
	bad := NewEmbedder(Config{Metric: "cosine"})
	if _, err := bad.FitTransform(mat.NewDense(5, 4, nil)); err == nil {
		t.Error("expected error for unsupported metric")
	}
}

func TestNewEmbedderFillsDefaults(t *testing.T) {
	e := NewEmbedder(Config{})
	cfg := e.Config()
	if cfg.NumNeighbors != 15 || cfg.MinDist != 0.1 || cfg.Metric != "euclidean" || cfg.Epochs != 200 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
