package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/sandpend/internal/session"
)

// Format names one output file kind.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// AllFormats lists every format in the order they are written.
var AllFormats = []Format{FormatPNG, FormatSVG, FormatCSV, FormatJSON}

// ParseFormats accepts a comma separated list such as "png,csv".
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" || s == "all" {
		return AllFormats, nil
	}
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case FormatPNG, FormatSVG, FormatCSV, FormatJSON:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown export format %q", part)
		}
	}
	return out, nil
}

// WriteFile writes plan to path in format f.
func WriteFile(path string, plan *session.Plan, f Format, opts FigureOptions) error {
	if f == FormatPNG {
		return PNG(path, []*session.Plan{plan}, opts)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch f {
	case FormatSVG:
		err = WriteSVG(file, plan.Path, 800, 800, "#ffb000")
	case FormatCSV:
		err = WriteCSV(file, plan.Path)
	case FormatJSON:
		err = WriteJSON(file, plan)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// Store keeps one directory per saved throw.
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
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	LengthX    float64   `json:"length_x"`
	LengthY    float64   `json:"length_y"`
	Ratio      string    `json:"ratio"`
	Steps      int       `json:"steps"`
	Step       float64   `json:"step"`
	Advisories []string  `json:"advisories,omitempty"`
	Files      []string  `json:"files"`
}

// Save writes plan in every requested format under a new run directory
// and returns the run ID.
func (s *Store) Save(name string, plan *session.Plan, formats []Format, opts FigureOptions) (string, error) {
	if name == "" {
		name = "throw"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", name, now.Format("20060102T150405.000000000"))
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		LengthX:   plan.Solution.LengthX,
		LengthY:   plan.Solution.LengthY,
		Ratio:     plan.Ratio.Approximate(1000).String(),
		Steps:     plan.Path.Len(),
		Step:      plan.Path.Step(),
	}
	for _, a := range plan.Advisories() {
		meta.Advisories = append(meta.Advisories, a.String())
	}

	for _, f := range formats {
		file := "path." + string(f)
		if f == FormatPNG {
			file = DefaultFigure
		}
		if err := WriteFile(filepath.Join(runDir, file), plan, f, opts); err != nil {
			return "", fmt.Errorf("%s: %w", file, err)
		}
		meta.Files = append(meta.Files, file)
	}

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
	return runID, nil
}

// List returns the metadata of every run, oldest first. Directories
// without readable metadata are skipped.
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

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
