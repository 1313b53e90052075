package widget

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/freeboard/pkg/errors"
)

// Catalog is the YAML document that declares extra widget types.
//
//	widgets:
//	  - id: standup-notes
//	    name: Standup Notes
//	    body: note
//	    sizes: [small, medium]
//	    default_size: small
//	    settings:
//	      text: {type: string, default: "Yesterday / Today / Blockers"}
type Catalog struct {
	Widgets []CatalogEntry `yaml:"widgets"`
}

// CatalogEntry is a descriptor plus the id of an already registered widget
// whose body factory it reuses.
type CatalogEntry struct {
	Descriptor `yaml:",inline"`
	Body       string `yaml:"body"`
}

// LoadCatalog reads and parses a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse catalog")
	}
	return &c, nil
}

// RegisterCatalog registers every entry of c in r. Entries are registered in
// order; the first failure stops registration and is returned.
func (r *Registry) RegisterCatalog(c *Catalog) error {
	for _, e := range c.Widgets {
		f, ok := r.factory(e.Body)
		if !ok {
			return errors.New(errors.ErrCodeUnknownWidget,
				"catalog widget %q uses unknown body %q", e.ID, e.Body)
		}
		if err := r.Register(e.Descriptor, f); err != nil {
			return err
		}
	}
	return nil
}
