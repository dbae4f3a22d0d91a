package journal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/nestegg/plan"
)

// FileStore keeps the plan input in a single JSON or YAML file, chosen by
// the path's extension. Writes go to a temp file in the same directory and
// are renamed into place.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

// Save assigns ids to new entities and writes in to the store's file.
func (s *FileStore) Save(ctx context.Context, in plan.SimulationInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in = plan.WithIDs(in)

	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(in)
	} else {
		data, err = json.MarshalIndent(in, "", "  ")
	}
	if err != nil {
		return plan.PersistenceFailure("encode input", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.path, data); err != nil {
		return plan.PersistenceFailure("write "+s.path, err)
	}
	return nil
}

// Load reads the input back. A missing file is ErrNoData.
func (s *FileStore) Load(ctx context.Context) (plan.SimulationInput, error) {
	var in plan.SimulationInput
	if err := ctx.Err(); err != nil {
		return in, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return in, ErrNoData
	}
	if err != nil {
		return in, plan.PersistenceFailure("read "+s.path, err)
	}

	if s.isYAML() {
		err = yaml.Unmarshal(data, &in)
	} else {
		err = json.Unmarshal(data, &in)
	}
	if err != nil {
		return plan.SimulationInput{}, plan.PersistenceFailure("decode "+s.path, err)
	}
	return in, nil
}

func (s *FileStore) Close() error { return nil }

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
