package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
)

func benchCatalog(b *testing.B, n int) *catalog.Catalog {
	b.Helper()
	stations := make([]catalog.Station, 0, n)
	for i := 0; i < n; i++ {
		stations = append(stations, catalog.Station{
			ID:              fmt.Sprintf("%07d", i),
			Name:            fmt.Sprintf("STATION %d", i),
			ProvinceCode:    "ON",
			ElevationMeters: elevation(float64(i % 2000)),
			Position:        catalog.Position{Lat: 45, Lon: -75},
		})
	}
	c, err := catalog.NewCatalog(stations, 0)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkStore_Get(b *testing.B) {
	s := NewFromCatalog(benchCatalog(b, 8000), "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get("0004000")
	}
}

func BenchmarkStore_ConcurrentGetAndReplace(b *testing.B) {
	first := benchCatalog(b, 8000)
	second := benchCatalog(b, 8000)
	s := NewFromCatalog(first, "bench")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				s.Replace(second, "bench")
			} else {
				s.Replace(first, "bench")
			}
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Get("0000042")
			_ = s.ETag()
		}
	})
	b.StopTimer()

	close(done)
	wg.Wait()
}

func BenchmarkNewCatalog(b *testing.B) {
	stations := benchCatalog(b, 8000).Stations

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := catalog.NewCatalog(stations, 0); err != nil {
			b.Fatal(err)
		}
	}
}
