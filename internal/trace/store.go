package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Store keeps recorded runs, one directory each, under baseDir.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Diagram   string    `json:"diagram"`
	Timestamp time.Time `json:"timestamp"`
	Loop      bool      `json:"loop"`
	Speed     float64   `json:"speed"`
	Script    string    `json:"script"`
	Steps     int       `json:"steps"`
	Events    int       `json:"events"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Final     string    `json:"final_status"`
}

var csvHeader = []string{"at_ms", "index", "step_id", "status"}

// Save writes meta and events to a new run directory and returns its id.
// ID, Timestamp, Events, ElapsedMs and Final are filled in from events.
func (s *Store) Save(meta RunMetadata, events []Event) (string, error) {
	now := time.Now()
	meta.Timestamp = now
	meta.Events = len(events)
	if len(events) > 0 {
		last := events[len(events)-1]
		meta.ElapsedMs = last.AtMs
		meta.Final = last.Status
	}

	if err := s.Init(); err != nil {
		return "", err
	}
	runDir, err := s.newRunDir(fmt.Sprintf("%s_%s_%d", meta.Topic, meta.Diagram, now.UnixMilli()))
	if err != nil {
		return "", err
	}
	meta.ID = filepath.Base(runDir)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "events.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, events); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// newRunDir creates a fresh directory for id, adding a -N suffix when runs
// saved in the same millisecond already took it.
func (s *Store) newRunDir(id string) (string, error) {
	candidate := id
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, candidate)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]Event, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "events.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes events with a header row.
func WriteCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			strconv.FormatInt(e.AtMs, 10),
			strconv.Itoa(e.Index),
			e.StepID,
			e.Status,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV wrote.
func ReadCSV(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Event{}, nil
	}

	events := make([]Event, 0, len(records)-1)
	for i, record := range records[1:] {
		at, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: at_ms: %w", i+1, err)
		}
		index, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: index: %w", i+1, err)
		}
		events = append(events, Event{AtMs: at, Index: index, StepID: record[2], Status: record[3]})
	}
	return events, nil
}

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Events []Event     `json:"events"`
}

// ExportJSON writes a run and its events to path.
func ExportJSON(path string, meta RunMetadata, events []Event) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, events)
}

func WriteJSON(w io.Writer, meta RunMetadata, events []Event) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Events: events})
}
