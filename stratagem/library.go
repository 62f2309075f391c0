package stratagem

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

//go:embed stratagems.yaml
var bundled []byte

// ErrUnknown is returned when a name is not part of the library.
var ErrUnknown = errors.New("unknown stratagem")

// Library is the name-keyed set of definitions, loaded once at startup.
type Library struct {
	byName map[string]*Definition
	order  []*Definition
}

// record is the on-disk form shared by the JSON, YAML and TOML loaders.
type record struct {
	Name              string   `json:"name" yaml:"name" toml:"name"`
	Code              []string `json:"code" yaml:"code" toml:"code"`
	Category          string   `json:"category" yaml:"category" toml:"category"`
	Position          int      `json:"position" yaml:"position" toml:"position"`
	Deployment        string   `json:"deployment" yaml:"deployment" toml:"deployment"`
	DeploymentSeconds int      `json:"deploymentSeconds" yaml:"deploymentSeconds" toml:"deploymentSeconds"`
	CooldownSeconds   int      `json:"cooldownSeconds" yaml:"cooldownSeconds" toml:"cooldownSeconds"`
}

type document struct {
	Stratagems []record `json:"stratagems" yaml:"stratagems" toml:"stratagems"`
}

// NewLibrary builds a library from definitions, keeping their order.
// Names must be unique and codes non-empty.
func NewLibrary(defs []Definition) (*Library, error) {
	l := &Library{byName: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if d.Name == "" {
			return nil, fmt.Errorf("stratagem #%d: empty name", i)
		}
		if len(d.Code) == 0 {
			return nil, fmt.Errorf("stratagem %q: empty code", d.Name)
		}
		if _, dup := l.byName[d.Name]; dup {
			return nil, fmt.Errorf("stratagem %q: duplicate name", d.Name)
		}
		d.Code = slices.Clone(d.Code)
		l.byName[d.Name] = &d
		l.order = append(l.order, &d)
	}
	return l, nil
}

// LoadBundled loads the definitions shipped with the binary.
func LoadBundled() (*Library, error) {
	return Parse(bundled, "yaml")
}

// LoadFile loads a definition file. The format follows the file extension:
// .json, .yaml/.yml or .toml.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	lib, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes a definition document in the given format. JSON additionally
// accepts a bare top-level array of records.
func Parse(data []byte, format string) (*Library, error) {
	var doc document
	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	case "json":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &doc.Stratagems)
		} else {
			err = json.Unmarshal(data, &doc)
		}
	default:
		return nil, fmt.Errorf("unsupported definitions format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s definitions: %w", format, err)
	}

	defs := make([]Definition, 0, len(doc.Stratagems))
	for _, r := range doc.Stratagems {
		d, err := r.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return NewLibrary(defs)
}

func (r record) definition() (Definition, error) {
	d := Definition{
		Name:       r.Name,
		Position:   r.Position,
		DeployTime: seconds(r.DeploymentSeconds),
		Cooldown:   seconds(r.CooldownSeconds),
	}
	var err error
	if d.Category, err = ParseCategory(r.Category); err != nil {
		return Definition{}, fmt.Errorf("stratagem %q: %w", r.Name, err)
	}
	if d.Deployment, err = ParseDeployment(r.Deployment); err != nil {
		return Definition{}, fmt.Errorf("stratagem %q: %w", r.Name, err)
	}
	for _, c := range r.Code {
		dir, err := ParseDirection(c)
		if err != nil {
			return Definition{}, fmt.Errorf("stratagem %q: %w", r.Name, err)
		}
		d.Code = append(d.Code, dir)
	}
	return d, nil
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// Get returns the definition for name.
func (l *Library) Get(name string) (*Definition, bool) {
	d, ok := l.byName[name]
	return d, ok
}

// Lookup is Get with an ErrUnknown error for missing names.
func (l *Library) Lookup(name string) (*Definition, error) {
	if d, ok := l.byName[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Has reports whether name is defined.
func (l *Library) Has(name string) bool {
	_, ok := l.byName[name]
	return ok
}

// Len returns the number of definitions.
func (l *Library) Len() int { return len(l.order) }

// Names returns all names in load order.
func (l *Library) Names() []string {
	out := make([]string, len(l.order))
	for i, d := range l.order {
		out[i] = d.Name
	}
	return out
}

// All returns every definition ordered by category, then display position.
func (l *Library) All() []*Definition {
	out := slices.Clone(l.order)
	slices.SortStableFunc(out, func(a, b *Definition) int {
		if c := a.Category.Rank() - b.Category.Rank(); c != 0 {
			return c
		}
		return a.Position - b.Position
	})
	return out
}
