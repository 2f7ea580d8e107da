package spectral

import (
	"math"
	"math/cmplx"
)

// fft performs an in-place iterative radix-2 FFT.
// len(x) must be a power of two.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	// Danielson-Lanczos stages
	for size := 2; size <= n; size <<= 1 {
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		half := size >> 1
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+half; k++ {
				u := x[k]
				v := x[k+half] * w
				x[k] = u + v
				x[k+half] = u - v
				w *= step
			}
		}
	}
}
