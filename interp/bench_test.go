package interp_test

import (
	"testing"

	"github.com/katalvlaran/topomerge/interp"
)

func BenchmarkLattice_At(b *testing.B) {
	const n = 256
	vals := make([]float64, n*n)
	for i := range vals {
		vals[i] = float64(i % 97)
	}
	l, _ := interp.NewLattice(n, n, vals)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.At(float64(i%n)*0.73, float64(i%(n-1))*0.91)
	}
}

func BenchmarkNewTriangulation_1k(b *testing.B) {
	pts, vals := scattered(1000, 1, func(x, y float64) float64 { return x * y })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = interp.NewTriangulation(pts, vals)
	}
}

func BenchmarkNewTriangulation_50k(b *testing.B) {
	pts, vals := scattered(50000, 2, func(x, y float64) float64 { return x - y })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = interp.NewTriangulation(pts, vals)
	}
}
