package floquet

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SampleSolver computes the positive- and negative-orientation half-guide
// solutions at one Bloch wavenumber. Solves at distinct wavenumbers share
// only read-only data and are independent.
type SampleSolver func(k float64) (uPos, uNeg []complex128, err error)

func sampleFile(outDir string, m int) string {
	return filepath.Join(outDir, fmt.Sprintf("floquet_%04d.gob", m))
}

// WriteSample persists one artifact for the reconstruction phase.
func WriteSample(outDir string, m int, s Sample) (err error) {
	f, err := os.Create(sampleFile(outDir, m))
	if err != nil {
		return
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(s)
}

func ReadSample(outDir string, m int) (s Sample, err error) {
	f, err := os.Open(sampleFile(outDir, m))
	if err != nil {
		return
	}
	defer f.Close()
	err = gob.NewDecoder(f).Decode(&s)
	return
}

// RunBatch fans the M independent wavenumber solves out over the local
// CPUs, one artifact file per sample, and waits for all of them before
// returning. A failed solve aborts the whole batch: a half-written sample
// set is useless to the reconstruction and is never padded with zeros.
func RunBatch(ctx context.Context, solver SampleSolver, M int, period float64, outDir string) (err error) {
	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return
	}
	var (
		ks      = Wavenumbers(M, period)
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(runtime.NumCPU())
	for m, k := range ks {
		m, k := m, k
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			uPos, uNeg, serr := solver(k)
			if serr != nil {
				return fmt.Errorf("floquet sample %d (k = %g) failed: %w", m, k, serr)
			}
			return WriteSample(outDir, m, Sample{K: k, UPos: uPos, UNeg: uNeg})
		})
	}
	err = g.Wait()
	return
}

// ReadBatch loads all M artifacts after the batch barrier.
func ReadBatch(outDir string, M int) (samples []Sample, err error) {
	samples = make([]Sample, M)
	for m := 0; m < M; m++ {
		if samples[m], err = ReadSample(outDir, m); err != nil {
			err = fmt.Errorf("reading floquet sample %d: %w", m, err)
			return
		}
	}
	return
}
