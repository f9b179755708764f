// Package catalog reads item catalogs from YAML for bulk import into a
// store. A catalog looks like:
//
//	items:
//	  - name: Bag of Holding
//	    category: Wondrous Item
//	    rarity: uncommon
//	    description: |
//	      This bag has an interior space considerably larger than its
//	      outside dimensions.
//	    source: DMG
//	  - name: Vorpal Sword
//	    category: Weapon
//	    category_notes: any sword that deals slashing damage
//	    rarity: legendary
//	    attunement: true
//
// Unknown keys are rejected so typos surface instead of silently dropping data.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/magicshop-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog contains no items.
var ErrEmptyCatalog = errors.New("catalog contains no items")

// ErrMalformedCatalog is returned when a catalog is not valid YAML or
// holds unknown fields.
var ErrMalformedCatalog = errors.New("malformed catalog")

// Entry is one item as written in a catalog file.
type Entry struct {
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	CategoryNotes string `yaml:"category_notes"`
	Rarity        string `yaml:"rarity"`
	Description   string `yaml:"description"`
	Source        string `yaml:"source"`
	Restrictions  string `yaml:"restrictions"`
	Attunement    bool   `yaml:"attunement"`
	Stocked       bool   `yaml:"stocked"`
	Purchased     bool   `yaml:"purchased"`
	Gachapon      bool   `yaml:"gachapon"`
}

type document struct {
	Items []Entry `yaml:"items"`
}

// EntryError reports which catalog entry failed to convert.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("item %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Fields converts the entry into item fields, normalizing the rarity.
func (e Entry) Fields() (domain.ItemFields, error) {
	rarity, err := domain.ParseRarity(e.Rarity)
	if err != nil {
		return domain.ItemFields{}, err
	}
	return domain.ItemFields{
		Name:          e.Name,
		Category:      e.Category,
		CategoryNotes: e.CategoryNotes,
		Rarity:        rarity,
		Description:   e.Description,
		Source:        e.Source,
		Restrictions:  e.Restrictions,
		Attunement:    e.Attunement,
		Stocked:       e.Stocked,
		Purchased:     e.Purchased,
		Gachapon:      e.Gachapon,
	}, nil
}

// Parse decodes a catalog and converts every entry. It fails on the
// first invalid entry with an *EntryError.
func Parse(r io.Reader) ([]domain.ItemFields, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	if len(doc.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	fields := make([]domain.ItemFields, 0, len(doc.Items))
	for i, entry := range doc.Items {
		f, err := entry.Fields()
		if err != nil {
			return nil, &EntryError{Index: i, Name: entry.Name, Err: err}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// LoadFile parses the catalog at path.
func LoadFile(path string) ([]domain.ItemFields, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
