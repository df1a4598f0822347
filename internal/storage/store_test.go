package storage

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/jkleist/shearmd/internal/md"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newStore(t)
	runID, err := s.NewRun(RunMetadata{N: 4, Density: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	sys := md.NewSystem(4, 6.0)
	rng := rand.New(rand.NewSource(2))
	for i := range sys.R {
		for c := 0; c < 3; c++ {
			sys.R[i][c] = rng.Float64() - 0.5
			sys.V[i][c] = rng.NormFloat64()
		}
	}

	const strain = 0.125
	if err := s.SaveSnapshot(runID, 100, sys, strain); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(s.baseDir, runID, "snap_00000100.csv.gz")
	loaded, gotStrain, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.N != sys.N || loaded.Box != sys.Box {
		t.Fatalf("header mismatch: n=%d box=%v", loaded.N, loaded.Box)
	}
	if gotStrain != strain {
		t.Errorf("strain: got %v, want %v", gotStrain, strain)
	}
	for i := 0; i < sys.N; i++ {
		for c := 0; c < 3; c++ {
			if math.Abs(loaded.R[i][c]-sys.R[i][c]) > 1e-14 {
				t.Errorf("position %d/%d: got %v, want %v", i, c, loaded.R[i][c], sys.R[i][c])
			}
			if loaded.V[i][c] != sys.V[i][c] {
				t.Errorf("velocity %d/%d: got %v, want %v", i, c, loaded.V[i][c], sys.V[i][c])
			}
		}
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newStore(t)

	meta := RunMetadata{
		N: 256, Density: 0.5, Temperature: 1.0,
		Cutoffs: []float64{2.3, 3.0, 3.6}, Lambda: 0.15,
		Dt: 0.005, StrainRate: 0.04, Steps: 1000, Seed: 42,
	}
	runID, err := s.NewRun(meta)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadMetadata(runID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != runID || loaded.N != 256 || len(loaded.Cutoffs) != 3 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}

	loaded.Means = map[string]float64{"energy": -1.25}
	if err := s.UpdateMetadata(runID, loaded); err != nil {
		t.Fatal(err)
	}
	again, err := s.LoadMetadata(runID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Means["energy"] != -1.25 {
		t.Errorf("update lost means: %+v", again.Means)
	}
}

func TestListRuns(t *testing.T) {
	s := newStore(t)

	if runs, err := s.ListRuns(); err != nil || len(runs) != 0 {
		t.Fatalf("expected empty store, got %v (%v)", runs, err)
	}

	if _, err := s.NewRun(RunMetadata{N: 8}); err != nil {
		t.Fatal(err)
	}
	runs, err := s.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListRunsMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := s.ListRuns()
	if err != nil || runs != nil {
		t.Errorf("missing dir should be empty, got %v (%v)", runs, err)
	}
}
