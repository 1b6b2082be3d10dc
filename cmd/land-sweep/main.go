package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"lemterrain/internal/terrain"
)

func main() {
	sites := flag.Int("sites", 5000, "particles per mesh")
	seeds := flag.Int("seeds", 16, "number of seeds per ratio")
	noiseName := flag.String("noise", "perlin", "noise sampler")
	fault := flag.Float64("fault", terrain.DefaultConfig().FaultScale, "fault scale")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	base := terrain.DefaultConfig()
	base.ParticleNum = *sites
	base.Noise = *noiseName
	base.FaultScale = *fault
	base.RelaxIterations = 2
	base.Workers = 1
	bounds := terrain.DefaultBounds()
	ratios := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

	fmt.Printf("Sweeping %d ratios x %d seeds (%d workers, %d sites, %s noise)\n",
		len(ratios), *seeds, *workers, *sites, *noiseName)

	jobs := make(chan uint32)
	results := make(chan []terrain.LandSample)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				samples, err := terrain.LandSweep(base, bounds, ratios, []uint32{seed}, 1)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results <- samples
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for s := 1; s <= *seeds; s++ {
			jobs <- uint32(s)
		}
		close(jobs)
	}()

	start := time.Now()
	var all []terrain.LandSample
	for samples := range results {
		all = append(all, samples...)
	}
	if firstErr != nil {
		log.Fatal(firstErr)
	}
	elapsed := time.Since(start)

	fmt.Printf("\nPer target (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for _, sum := range terrain.SummarizeLand(all) {
		fmt.Printf("  target=%.2f achieved=%.3f meanErr=%.3f maxErr=%.3f n=%d\n",
			sum.Target, sum.MeanAchieved, sum.MeanAbsError, sum.MaxAbsError, sum.Samples)
	}

	sort.Slice(all, func(i, j int) bool { return math.Abs(all[i].Error()) > math.Abs(all[j].Error()) })
	fmt.Println("\nWorst 5 samples:")
	for i := 0; i < len(all) && i < 5; i++ {
		s := all[i]
		fmt.Printf("%2d) seed=%d target=%.2f achieved=%.3f err=%+.4f outlets=%d/%d\n",
			i+1, s.Seed, s.Target, s.Achieved, s.Error(), s.Outlets, s.Sites)
	}
}
