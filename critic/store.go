package critic

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
)

// partialsDir is the subdirectory of a critic dir whose *.tmpl files are
// registered as shared partials under their basename.
const partialsDir = "_partials"

// Registry is an immutable snapshot of loaded critics and their shared
// partials. Renders in flight keep using the snapshot they started with
// even if the store reloads underneath them.
type Registry struct {
	critics  map[string]*Critic
	partials template.Partials
}

// Get returns the named critic.
func (r *Registry) Get(name string) (*Critic, bool) {
	c, ok := r.critics[name]
	return c, ok
}

// Names returns all critic names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.critics))
	for name := range r.critics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Critics returns the critics in name order.
func (r *Registry) Critics() []*Critic {
	out := make([]*Critic, 0, len(r.critics))
	for _, name := range r.Names() {
		out = append(out, r.critics[name])
	}
	return out
}

// Partials returns the shared partial registry. Callers must not mutate
// the returned map.
func (r *Registry) Partials() template.Partials {
	return r.partials
}

// Len returns the number of loaded critics.
func (r *Registry) Len() int { return len(r.critics) }

// Store loads critic definitions from a directory and hands out registry
// snapshots. Safe for concurrent use; Reload swaps the snapshot
// atomically.
type Store struct {
	dir    string
	engine *template.Engine
	logger *zap.SugaredLogger

	mu       sync.RWMutex
	registry *Registry
}

// NewStore creates a store over dir and performs the initial load.
func NewStore(dir string, engine *template.Engine, logger *zap.SugaredLogger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Store{dir: dir, engine: engine, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Registry returns the current snapshot.
func (s *Store) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Reload re-reads the critic directory and swaps in a fresh snapshot.
// On failure the previous snapshot stays in place.
func (s *Store) Reload() error {
	reg, err := loadDir(s.dir, s.engine)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.registry = reg
	s.mu.Unlock()

	s.logger.Infow("critic registry loaded",
		"dir", s.dir,
		"critics", reg.Len(),
		"partials", len(reg.partials),
	)
	return nil
}

// loadDir reads every *.toml critic file in dir plus *.tmpl partials
// under dir/_partials. Every template (critic and partial) must pass
// Validate before the registry is accepted: render-time output of a
// malformed template is whatever the lenient builder produces, so the
// check happens at load.
func loadDir(dir string, engine *template.Engine) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read critic dir %s", dir)
	}

	reg := &Registry{
		critics:  make(map[string]*Critic),
		partials: template.Partials{},
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		c, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.critics[c.Name]; dup {
			return nil, errors.Newf("duplicate critic name %q (%s)", c.Name, path)
		}

		if vr := template.Validate(c.Template); !vr.Valid {
			return nil, errors.Newf("critic %q template invalid: %s", c.Name, strings.Join(vr.Errors, "; "))
		}

		reg.critics[c.Name] = c
	}

	if err := loadPartials(filepath.Join(dir, partialsDir), reg.partials); err != nil {
		return nil, err
	}

	return reg, nil
}

// loadFile parses and validates one critic TOML file.
func loadFile(path string) (*Critic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read critic file %s", path)
	}

	c := Critic{Weight: 1, Scale: DefaultScale}
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "failed to parse critic file %s", path)
	}

	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), ".toml")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid critic file %s", path)
	}
	return &c, nil
}

// loadPartials registers every *.tmpl file under dir by basename.
// A missing partials directory is fine; a broken partial is not.
func loadPartials(dir string, partials template.Partials) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read partials dir %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read partial %s", path)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		if vr := template.Validate(string(data)); !vr.Valid {
			return errors.Newf("partial %q invalid: %s", name, strings.Join(vr.Errors, "; "))
		}
		partials[name] = string(data)
	}

	return nil
}
