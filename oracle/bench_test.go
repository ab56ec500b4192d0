package oracle

import "testing"

func benchPerft(b *testing.B, backend, fen string, depth int) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Perft(backend, fen, depth); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPerft_Initial_D3(b *testing.B) {
	for _, backend := range Backends() {
		b.Run(backend, func(b *testing.B) { benchPerft(b, backend, StartFEN, 3) })
	}
}

func BenchmarkPerft_Kiwipete_D2(b *testing.B) {
	for _, backend := range Backends() {
		b.Run(backend, func(b *testing.B) { benchPerft(b, backend, kiwipete, 2) })
	}
}

// Ordering the legal moves is the per-ply cost paid by the codec.
func BenchmarkLegalMoves(b *testing.B) {
	for _, backend := range Backends() {
		b.Run(backend, func(b *testing.B) {
			p, err := FromFEN(backend, kiwipete)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p.fresh = false
				if p.NumMoves() != 48 {
					b.Fatal("wrong move count")
				}
			}
		})
	}
}
