package loader

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/km-arc/dico/framework/container"
)

// ModuleField is the declaration field naming a service's module.
const ModuleField = "module"

// Declarations maps entry names to declarations. A declaration that is a
// map with a ModuleField is a service; anything else is a plain parameter.
//
//	loader.Declarations{
//	    "mailer": map[string]any{"module": "./services/mailer", "host": "smtp.internal"},
//	    "host":   "global.example",
//	}
type Declarations map[string]any

// Loader registers declarations into a Registry.
type Loader struct {
	modules ModuleResolver
	log     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report registrations.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// New creates a Loader resolving service modules through modules.
func New(modules ModuleResolver, opts ...Option) *Loader {
	l := &Loader{modules: modules, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load registers every declaration into c, in entry-name order.
//
// A plain parameter is stored as-is under its entry name. A service has its
// module resolved (relative identifiers against baseDir) and the factory
// stored under the entry name; each remaining field is stored under
// "<entry>.<field>", where the service's own lookups find it first.
//
// The first declaration whose module cannot be resolved stops the load;
// entries after it are not registered.
func (l *Loader) Load(c *container.Registry, decls Declarations, baseDir string) error {
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := l.loadEntry(c, name, decls[name], baseDir); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a declaration file and loads it with the file's directory
// as base directory.
func (l *Loader) LoadFile(c *container.Registry, path string) error {
	decls, err := ReadFile(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	return l.Load(c, decls, filepath.Dir(abs))
}

func (l *Loader) loadEntry(c *container.Registry, name string, decl any, baseDir string) error {
	fields, isMap := decl.(map[string]any)
	rawModule, isService := fields[ModuleField]
	if !isMap || !isService {
		l.log.Debug("registering parameter", zap.String("entry", name))
		c.Set(name, decl)
		return nil
	}

	module, ok := rawModule.(string)
	if !ok || module == "" {
		return &InvalidDeclarationError{
			Entry:  name,
			Reason: fmt.Sprintf("%s must be a non-empty string, got %T", ModuleField, rawModule),
		}
	}

	id := ResolveID(module, baseDir)
	factory, found := l.modules.Resolve(id)
	if !found {
		return &ModuleNotFoundError{Entry: name, Module: module, Path: id}
	}

	l.log.Debug("registering service", zap.String("entry", name), zap.String("module", id))
	c.Set(name, factory)
	for field, value := range fields {
		if field == ModuleField {
			continue
		}
		c.Set(name+"."+field, value)
	}
	return nil
}

// Load registers decls into c using a default Loader. See Loader.Load.
func Load(c *container.Registry, decls Declarations, baseDir string, modules ModuleResolver) error {
	return New(modules).Load(c, decls, baseDir)
}
