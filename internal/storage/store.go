// Package storage persists run metadata and configuration snapshots.
// Snapshots carry positions in physical (sigma) units and velocities as
// is, so a saved file is self-contained; loading converts positions
// back to box units for the core.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/jkleist/shearmd/internal/md"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one completed or running simulation.
type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	N           int                `json:"n"`
	Density     float64            `json:"density"`
	Temperature float64            `json:"temperature"`
	Cutoffs     []float64          `json:"cutoffs"`
	Lambda      float64            `json:"lambda"`
	Dt          float64            `json:"dt"`
	StrainRate  float64            `json:"strain_rate"`
	Steps       int                `json:"steps"`
	Seed        int64              `json:"seed"`
	Means       map[string]float64 `json:"means,omitempty"`
	StdErrs     map[string]float64 `json:"std_errs,omitempty"`
}

// NewRun creates a run directory and writes its metadata, returning the
// run ID.
func (s *Store) NewRun(meta RunMetadata) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	meta.ID = runID
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := s.writeMetadata(runID, meta); err != nil {
		return "", err
	}
	return runID, nil
}

// UpdateMetadata rewrites the metadata file, typically to attach final
// averages after a run.
func (s *Store) UpdateMetadata(runID string, meta RunMetadata) error {
	meta.ID = runID
	return s.writeMetadata(runID, meta)
}

func (s *Store) writeMetadata(runID string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// LoadMetadata reads the metadata of one run.
func (s *Store) LoadMetadata(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// ListRuns returns the run IDs under the store, oldest first.
func (s *Store) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() {
			runs = append(runs, e.Name())
		}
	}
	return runs, nil
}

// SaveSnapshot writes the configuration at one step as a gzip-compressed
// CSV under the run directory. The first record holds n, box and strain;
// then one record of x,y,z,vx,vy,vz per particle, positions scaled to
// sigma units.
func (s *Store) SaveSnapshot(runID string, step int, sys *md.System, strain float64) error {
	name := fmt.Sprintf("snap_%08d.csv.gz", step)
	f, err := os.Create(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	defer zw.Close()
	w := csv.NewWriter(zw)
	defer w.Flush()

	header := []string{
		strconv.Itoa(sys.N),
		strconv.FormatFloat(sys.Box, 'g', -1, 64),
		strconv.FormatFloat(strain, 'g', -1, 64),
	}
	if err := w.Write(header); err != nil {
		return err
	}

	rec := make([]string, 6)
	for i := 0; i < sys.N; i++ {
		for c := 0; c < 3; c++ {
			rec[c] = strconv.FormatFloat(sys.R[i][c]*sys.Box, 'g', -1, 64)
			rec[c+3] = strconv.FormatFloat(sys.V[i][c], 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot reads a snapshot file written by SaveSnapshot, returning
// the system with positions converted back to box units, plus the
// strain recorded at save time.
func LoadSnapshot(path string) (*md.System, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, 0, err
	}
	defer zr.Close()

	r := csv.NewReader(zr)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, err
	}
	if len(header) != 3 {
		return nil, 0, fmt.Errorf("storage: malformed snapshot header in %s", path)
	}
	n, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, 0, err
	}
	boxSide, err := strconv.ParseFloat(header[1], 64)
	if err != nil {
		return nil, 0, err
	}
	strain, err := strconv.ParseFloat(header[2], 64)
	if err != nil {
		return nil, 0, err
	}

	sys := md.NewSystem(n, boxSide)
	for i := 0; i < n; i++ {
		rec, err := r.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("storage: snapshot %s truncated at particle %d: %w", path, i, err)
		}
		if len(rec) != 6 {
			return nil, 0, fmt.Errorf("storage: bad record length %d in %s", len(rec), path)
		}
		for c := 0; c < 3; c++ {
			x, err := strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, 0, err
			}
			v, err := strconv.ParseFloat(rec[c+3], 64)
			if err != nil {
				return nil, 0, err
			}
			sys.R[i][c] = x / boxSide
			sys.V[i][c] = v
		}
	}
	return sys, strain, nil
}
