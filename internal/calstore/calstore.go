// Package calstore persists calibration offsets in a YAML file.
//
// The file is a flat mapping from calibration key to offset in dB:
//
//	"UR22|fs=48000|opench=2": 117.03
//
// JSON is valid YAML, so stores written as JSON objects load as well. A
// missing file is an empty store. A file that does not parse is salvaged
// line by line; entries that cannot be recovered are reported as
// calibration.ErrStoreUnavailable and never abort a measurement. Rewriting a
// corrupt file keeps the original bytes next to it with a ".corrupt" suffix.
package calstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-slm/measure/calibration"
)

// DefaultFile is the store file name used when none is configured.
const DefaultFile = "splmeter-cal.yaml"

// Store is a file-backed calibration.Store. It is not safe for concurrent
// use by multiple processes beyond the atomicity of a single Upsert.
type Store struct {
	path string
}

var _ calibration.Store = (*Store)(nil)

// New returns a store backed by path. The file is not touched until used.
func New(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Lookup returns the offset stored under key. If the file is partly corrupt
// but the entry was salvaged, it is returned without error.
func (s *Store) Lookup(key calibration.Key) (float64, bool, error) {
	entries, err := s.Entries()

	v, ok := entries[key.String()]
	if ok {
		return v, true, nil
	}

	return 0, false, err
}

// Upsert stores offsetDB under key and rewrites the file atomically. An
// unreadable file is left untouched and the upsert fails. A partly corrupt
// file is copied to BackupPath before being replaced by its salvaged entries
// plus the new one.
func (s *Store) Upsert(key calibration.Key, offsetDB float64) error {
	if err := calibration.ValidateOffset(offsetDB); err != nil {
		return fmt.Errorf("calstore: refusing to store %s: %w", key, err)
	}

	raw, err := s.read()
	if err != nil {
		return fmt.Errorf("calstore: not rewriting %s: %w", s.path, err)
	}

	entries, err := decode(raw, s.path)
	if err != nil {
		if err := writeAtomic(s.BackupPath(), raw); err != nil {
			return fmt.Errorf("%w: back up %s: %w", calibration.ErrStoreUnavailable, s.path, err)
		}
	}

	entries[key.String()] = offsetDB

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", calibration.ErrStoreUnavailable, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", calibration.ErrStoreUnavailable, err)
	}

	return nil
}

// BackupPath is where Upsert keeps the original bytes of a corrupt file.
func (s *Store) BackupPath() string { return s.path + ".corrupt" }

// Entries returns all readable entries. The map is non-nil whenever the
// error is nil or matches calibration.ErrStoreUnavailable after a partial
// salvage.
func (s *Store) Entries() (map[string]float64, error) {
	raw, err := s.read()
	if err != nil {
		return nil, err
	}

	return decode(raw, s.path)
}

// read returns the file content; a missing file reads as empty.
func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", calibration.ErrStoreUnavailable, err)
	}

	return data, nil
}

func decode(data []byte, name string) (map[string]float64, error) {
	entries := map[string]float64{}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}

	if err := yaml.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	salvaged, lost := salvage(data)
	if lost == 0 {
		return salvaged, nil
	}

	return salvaged, fmt.Errorf("%w: %s: %d unreadable line(s), %d entries recovered",
		calibration.ErrStoreUnavailable, name, lost, len(salvaged))
}

// salvage decodes each line as a one-entry mapping. JSON object syntax
// (braces, trailing commas) is stripped first.
func salvage(data []byte) (map[string]float64, int) {
	entries := map[string]float64{}
	lost := 0

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ",")

		if line == "" || line == "{" || line == "}" || strings.HasPrefix(line, "#") {
			continue
		}

		var entry map[string]float64
		if err := yaml.Unmarshal([]byte(line), &entry); err != nil || len(entry) != 1 {
			lost++
			continue
		}

		for k, v := range entry {
			entries[k] = v
		}
	}

	return entries, lost
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}
