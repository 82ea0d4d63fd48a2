package similarity

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// sizeBucketWidth buckets files by size in multiples of 100 bytes, per
// §4.C's duplicate-scan pre-filter.
const sizeBucketWidth = 100

// File is one corpus entry for a duplicate scan.
type File struct {
	Path    string
	Content string
}

// DuplicatePair is a candidate pair that cleared the composite
// similarity threshold.
type DuplicatePair struct {
	FileA, FileB string
	Evidence     Evidence
}

// ScanDuplicates groups files into size buckets (multiples of 100
// bytes) and only compares files within the same bucket. This is the
// only admissible pre-filter: every pair it does compare is judged by
// the same composite threshold as any other pair. Buckets are
// independent, so each is scored by a separate errgroup goroutine;
// ComputePair is pure and touches no shared state, so the only
// coordination needed is a mutex around appending to the shared
// results slice.
func ScanDuplicates(ctx context.Context, files []File, threshold float64) []DuplicatePair {
	buckets := make(map[int][]File)
	for _, f := range files {
		b := len(f.Content) / sizeBucketWidth
		buckets[b] = append(buckets[b], f)
	}

	var (
		mu      sync.Mutex
		results []DuplicatePair
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, bucket := range buckets {
		bucket := bucket
		g.Go(func() error {
			var local []DuplicatePair
			for i := 0; i < len(bucket); i++ {
				if gCtx.Err() != nil {
					return nil
				}
				for j := i + 1; j < len(bucket); j++ {
					ev := ComputePair(bucket[i].Path, bucket[j].Path, bucket[i].Content, bucket[j].Content)
					if ev.MeetsThreshold(threshold) {
						local = append(local, DuplicatePair{
							FileA:    bucket[i].Path,
							FileB:    bucket[j].Path,
							Evidence: ev,
						})
					}
				}
			}
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // ComputePair never errors; the group waits for every bucket (one goroutine each, no limit) and lets ctx cancel it early.

	sort.Slice(results, func(i, j int) bool {
		if results[i].FileA != results[j].FileA {
			return results[i].FileA < results[j].FileA
		}
		return results[i].FileB < results[j].FileB
	})
	return results
}
