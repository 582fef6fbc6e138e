package tmpl

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Store retrieves templates by name. It is consulted by $partial$
// directives and [Engine.RenderNamed]. Implementations must be safe for
// concurrent use.
type Store interface {
	Load(name string) (*Template, error)
}

// MapStore is an in-memory store keyed by template origin.
type MapStore struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewMapStore constructs an empty in-memory store.
func NewMapStore() *MapStore {
	return &MapStore{templates: map[string]*Template{}}
}

// Add registers a template under its origin label, replacing any previous
// template with the same origin.
func (s *MapStore) Add(t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[t.origin] = t
}

// Load implements [Store].
func (s *MapStore) Load(name string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, ErrNoTemplate.With(slog.String("template", name))
	}

	return t, nil
}

// DirStore serves templates from a file system, parsing them on demand.
// Parsed templates are cached process-wide by name and content hash, so
// identical content is parsed only once even when loaded from multiple
// goroutines.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore constructs a store over a directory on the host file system.
func NewDirStore(dir string) *DirStore {
	return &DirStore{fsys: os.DirFS(dir)}
}

// NewFSStore constructs a store over an arbitrary file system.
func NewFSStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

// Load implements [Store].
func (s *DirStore) Load(name string) (*Template, error) {
	if !fs.ValidPath(name) {
		return nil, ErrNoTemplate.With(slog.String("template", name))
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, ErrNoTemplate.Wrap(err).
			With(slog.String("template", name))
	}
	defer f.Close()

	// Wrap the file with async read-ahead so data is pre-fetched while
	// previous chunks are consumed.
	ra := readahead.NewReader(f)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrTemplateRead.Wrap(err).
			With(slog.String("template", name))
	}

	return cachedParse(name, string(data))
}

// Process-wide cache of parsed templates keyed by (name, content hash).
//
//nolint:gochecknoglobals
var parseCache sync.Map

// cacheEntry holds the single parse of one (name, content) pair.
type cacheEntry struct {
	once sync.Once
	t    *Template
	err  error
}

// cachedParse parses source under the process-wide cache. The key combines
// the template name with an xxh3 content hash, so re-reads parse only when
// the content actually changed.
func cachedParse(name, source string) (*Template, error) {
	key := cacheKey{name: name, hash: xxh3.HashString(source)}

	value, _ := parseCache.LoadOrStore(key, new(cacheEntry))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return Parse(name, source)
	}

	entry.once.Do(func() {
		entry.t, entry.err = Parse(name, source)
	})

	return entry.t, entry.err
}

type cacheKey struct {
	name string
	hash uint64
}

// ClearCache removes all cached parsed templates. This is primarily useful
// for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.Range(func(key, _ any) bool {
		parseCache.Delete(key)

		return true
	})
}
