// Package storage records runs to disk as metadata.json plus CSV series and
// reads them back.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/emergent/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
	fieldsFile   = "fields.csv"
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Demo       string             `json:"demo"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Integrator string             `json:"integrator,omitempty"`
	Ticks      uint64             `json:"ticks"`
	Params     map[string]float64 `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Recorder is a Renderer that appends the newest point of every trail and
// the mean of every field to the run's CSV files.
type Recorder struct {
	dir    string
	meta   RunMetadata
	points *os.File
	fields *os.File
	pw, fw *csv.Writer
	err    error
}

// Create starts a new run directory for meta.Demo.
func (s *Store) Create(meta RunMetadata) (*Recorder, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Demo, now.UnixNano())
	meta.Timestamp = now
	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	pf, err := os.Create(filepath.Join(dir, pointsFile))
	if err != nil {
		return nil, err
	}
	ff, err := os.Create(filepath.Join(dir, fieldsFile))
	if err != nil {
		pf.Close()
		return nil, err
	}

	r := &Recorder{dir: dir, meta: meta, points: pf, fields: ff, pw: csv.NewWriter(pf), fw: csv.NewWriter(ff)}
	r.write(r.pw, []string{"tick", "series", "x", "y", "z"})
	r.write(r.fw, []string{"tick", "field", "mean"})
	return r, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) write(w *csv.Writer, row []string) {
	if r.err == nil {
		r.err = w.Write(row)
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func (r *Recorder) OnTick(s dynamo.Snapshot) {
	if s.Paused {
		return
	}
	tick := strconv.FormatUint(s.Tick, 10)
	for i, tr := range s.Trails {
		if len(tr) == 0 {
			continue
		}
		p := tr[len(tr)-1]
		r.write(r.pw, []string{tick, strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)})
	}
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.write(r.fw, []string{tick, name, formatFloat(s.Fields[name].Mean())})
	}
	r.meta.Ticks++
}

// Close flushes the series and writes metadata.json with the final metrics.
func (r *Recorder) Close(metrics map[string]float64) error {
	r.pw.Flush()
	r.fw.Flush()
	if r.err == nil {
		r.err = r.pw.Error()
	}
	if r.err == nil {
		r.err = r.fw.Error()
	}
	r.points.Close()
	r.fields.Close()
	if r.err != nil {
		return fmt.Errorf("run %s: %w", r.meta.ID, r.err)
	}

	// JSON has no NaN or Inf.
	r.meta.Metrics = make(map[string]float64, len(metrics))
	for k, v := range metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			r.meta.Metrics[k] = v
		}
	}
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadPoints returns each recorded series in tick order. Non-finite values
// are kept as recorded.
func (s *Store) LoadPoints(runID string) ([][]dynamo.Point, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, pointsFile))
	if err != nil {
		return nil, err
	}
	var series [][]dynamo.Point
	for _, rec := range records {
		if len(rec) != 5 {
			continue
		}
		idx, err := strconv.Atoi(rec[1])
		if err != nil || idx < 0 {
			continue
		}
		var xyz [3]float64
		ok := true
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(rec[2+j], 64); err != nil {
				ok = false
			}
		}
		if !ok {
			continue
		}
		for len(series) <= idx {
			series = append(series, nil)
		}
		series[idx] = append(series[idx], dynamo.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	if len(series) == 0 {
		if _, ferr := s.LoadFields(runID); ferr != nil {
			return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrEmptyRun)
		}
	}
	return series, nil
}

// LoadFields returns the per-tick mean of every recorded field.
func (s *Store) LoadFields(runID string) (map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, fieldsFile))
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64)
	for _, rec := range records {
		if len(rec) != 3 {
			continue
		}
		v, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		out[rec[1]] = append(out[rec[1]], v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrEmptyRun)
	}
	return out, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

type exportData struct {
	RunMetadata
	Series [][][3]float64       `json:"series,omitempty"`
	Fields map[string][]float64 `json:"fields,omitempty"`
}

// ExportJSON writes a run's metadata and recorded series as one document.
// Non-finite coordinates, which JSON cannot carry, are dropped.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := exportData{RunMetadata: *meta}
	if series, err := s.LoadPoints(runID); err == nil {
		for _, pts := range series {
			row := make([][3]float64, 0, len(pts))
			for _, p := range dynamo.FinitePoints(pts) {
				row = append(row, [3]float64{p.X, p.Y, p.Z})
			}
			data.Series = append(data.Series, row)
		}
	}
	if fields, err := s.LoadFields(runID); err == nil {
		data.Fields = fields
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
