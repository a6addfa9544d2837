package iostore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
)

// recordExt is the file extension of persisted record documents.
const recordExt = ".json"

// FileStoreImpl stores one JSON document per hierarchy node under a data
// directory. A key's ancestors map to directories and its record sits next to
// its children's directory, so a channel record lives at <dir>/<channel>.json
// while its packages live under <dir>/<channel>/.
type FileStoreImpl struct {
	dataDir string
	topo    schema.Topology
}

var _ contract.RecordStore = &FileStoreImpl{} // Compile-time check

// NewFileStore initializes a file-tree record store rooted at dataDir.
func NewFileStore(topo schema.Topology, dataDir string) (contract.RecordStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty for file backend")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w. Check that the parent is writable", dataDir, err)
	}
	return &FileStoreImpl{dataDir: dataDir, topo: topo}, nil
}

// recordPath maps a key to its document path inside the data directory.
func (f *FileStoreImpl) recordPath(key schema.Key) string {
	parts := key.Parts()
	segments := make([]string, len(parts)+1)
	segments[0] = f.dataDir
	for i, p := range parts {
		segments[i+1] = contract.EscapeComponent(p)
	}
	segments[len(segments)-1] += recordExt
	return filepath.Join(segments...)
}

// Load reads the record for a key. A missing document is not an error; it
// means the key has never been written.
func (f *FileStoreImpl) Load(key schema.Key) (*schema.LevelRecord, error) {
	data, err := os.ReadFile(f.recordPath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record for %s: %w", key, err)
	}
	return schema.DecodeRecord(f.topo, key, data)
}

// Save writes the record for a key atomically: the document lands in a
// temporary file in the target directory first and is renamed over the old
// one, so a crash mid-write never corrupts prior history.
func (f *FileStoreImpl) Save(key schema.Key, rec *schema.LevelRecord) error {
	data, err := schema.EncodeRecord(f.topo, rec)
	if err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", key, err)
	}

	path := f.recordPath(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write record for %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace record for %s: %w", key, err)
	}
	return nil
}

// Keys walks the data directory and returns every stored key. Files that do
// not decode to a valid key are skipped.
func (f *FileStoreImpl) Keys() ([]schema.Key, error) {
	var keys []schema.Key
	err := filepath.WalkDir(f.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), recordExt) {
			return nil
		}
		key, ok := f.keyFromPath(path)
		if !ok {
			return nil
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk data directory %q: %w", f.dataDir, err)
	}
	return keys, nil
}

// keyFromPath reverses recordPath for a document found during a walk.
func (f *FileStoreImpl) keyFromPath(path string) (schema.Key, bool) {
	rel, err := filepath.Rel(f.dataDir, path)
	if err != nil {
		return schema.Key{}, false
	}
	rel = strings.TrimSuffix(rel, recordExt)
	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) == 0 || len(segments) > schema.NumLevels {
		return schema.Key{}, false
	}
	parts := make([]string, len(segments))
	for i, seg := range segments {
		p, err := contract.UnescapeComponent(seg)
		if err != nil {
			return schema.Key{}, false
		}
		parts[i] = p
	}
	key, err := schema.NewKey(parts...)
	if err != nil {
		return schema.Key{}, false
	}
	return key, true
}

// Status reports document counts, write times, and total size on disk.
func (f *FileStoreImpl) Status() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(schema.FileBackend),
		Connected: true,
	}

	err := filepath.WalkDir(f.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), recordExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		status.TotalRecords++
		status.SizeBytes += info.Size()
		mod := info.ModTime()
		if status.LastWriteTime.IsZero() || mod.After(status.LastWriteTime) {
			status.LastWriteTime = mod
		}
		if status.OldestWriteTime.IsZero() || mod.Before(status.OldestWriteTime) {
			status.OldestWriteTime = mod
		}
		return nil
	})
	if err != nil {
		return status, fmt.Errorf("failed to walk data directory %q: %w", f.dataDir, err)
	}
	return status, nil
}

// Close is a no-op; the file store holds no long-lived handles.
func (f *FileStoreImpl) Close() error {
	return nil
}
