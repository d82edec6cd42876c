// internal/catalog/catalog.go
//
// Reference color catalog management.
//
// Responsibilities:
//   - Parse a YAML catalog (tier → list of named colors) into immutable Entries.
//   - Hold the process-wide catalog, loaded exactly once (Init).
//   - Hand out copies of a tier's entries so sessions can shuffle freely.
//
// Initialization behavior (Init):
//  1. If path is non-empty, load the YAML file at path.
//  2. Otherwise fall back to the embedded default (assets/catalog.yaml).
//
// YAML shape:
//
//	regular:
//	  - name: Red
//	    answer: "#ff0000"
//	    personal: "#d9381e"   # optional
//	    notes: "..."          # optional
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/colorguess/assets"
	"github.com/robalobadob/colorguess/internal/color"
)

// ErrNotInitialized is returned by package-level accessors before Init succeeds.
var ErrNotInitialized = errors.New("catalog: not initialized")

// Entry is one named reference color.
type Entry struct {
	Name     string     `json:"name"`
	Answer   color.RGB  `json:"answer"`
	Personal *color.RGB `json:"personal,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Catalog is an immutable set of entries grouped by tier.
type Catalog struct {
	tiers map[Tier][]Entry
}

type rawEntry struct {
	Name     string `yaml:"name"`
	Answer   string `yaml:"answer"`
	Personal string `yaml:"personal"`
	Notes    string `yaml:"notes"`
}

// Load parses a YAML catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	var raw map[string][]rawEntry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog: empty document")
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{tiers: make(map[Tier][]Entry, len(raw))}
	for name, list := range raw {
		tier, err := ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("catalog: tier %s has no entries", tier)
		}
		entries := make([]Entry, 0, len(list))
		for i, re := range list {
			e, err := re.entry()
			if err != nil {
				return nil, fmt.Errorf("catalog: %s[%d]: %w", tier, i, err)
			}
			entries = append(entries, e)
		}
		c.tiers[tier] = entries
	}
	return c, nil
}

func (re rawEntry) entry() (Entry, error) {
	name := strings.TrimSpace(re.Name)
	if name == "" {
		return Entry{}, errors.New("missing name")
	}
	ans, err := color.ParseHex(re.Answer)
	if err != nil {
		return Entry{}, fmt.Errorf("%s answer: %w", name, err)
	}
	e := Entry{Name: name, Answer: ans, Notes: strings.TrimSpace(re.Notes)}
	if re.Personal != "" {
		p, err := color.ParseHex(re.Personal)
		if err != nil {
			return Entry{}, fmt.Errorf("%s personal: %w", name, err)
		}
		e.Personal = &p
	}
	return e, nil
}

// Entries returns a copy of the tier's entries in catalog order.
// A tier the catalog does not list yields an empty slice.
func (c *Catalog) Entries(t Tier) ([]Entry, error) {
	if _, err := t.Info(); err != nil {
		return nil, err
	}
	src := c.tiers[t]
	out := make([]Entry, len(src))
	copy(out, src)
	return out, nil
}

// Stats returns the number of entries per tier.
func (c *Catalog) Stats() map[Tier]int {
	out := make(map[Tier]int, len(tierTable))
	for _, t := range Tiers() {
		out[t] = len(c.tiers[t])
	}
	return out
}

// --- process-wide catalog ---

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the process-wide catalog exactly once.
func Init(path string) error {
	initOnce.Do(func() {
		var data []byte
		if path != "" {
			var err error
			data, err = os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("catalog: read %s: %w", path, err)
				return
			}
		} else {
			data = assets.Catalog
		}
		defaultCat, initialErr = Load(bytes.NewReader(data))
	})
	return initialErr
}

// Default returns the process-wide catalog, or ErrNotInitialized.
func Default() (*Catalog, error) {
	if defaultCat == nil {
		if initialErr != nil {
			return nil, initialErr
		}
		return nil, ErrNotInitialized
	}
	return defaultCat, nil
}

// Embedded parses the compiled-in catalog without touching the process-wide one.
func Embedded() (*Catalog, error) {
	return Load(bytes.NewReader(assets.Catalog))
}
