// internal/oracle/catalog.go
package oracle

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog   = errors.New("catalog has no cards")
	ErrDuplicateCard  = errors.New("duplicate card name")
	ErrUnnamedCard    = errors.New("card without name")
	ErrInvalidCatalog = errors.New("catalog does not match schema")
)

//go:embed cards.yaml
var embeddedCards []byte

//go:embed catalog.schema.json
var catalogSchema string

// Card is one content variant. Only Name takes part in selection.
type Card struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Subtitle    string   `json:"subtitle,omitempty" yaml:"subtitle"`
	Element     string   `json:"element,omitempty" yaml:"element"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords"`
	Meaning     string   `json:"meaning,omitempty" yaml:"meaning"`
	Message     string   `json:"message,omitempty" yaml:"message"`
	Affirmation string   `json:"affirmation,omitempty" yaml:"affirmation"`
	Color       string   `json:"color,omitempty" yaml:"color"`
}

type catalogDocument struct {
	Version int    `yaml:"version"`
	Cards   []Card `yaml:"cards"`
}

// Catalog is an immutable, ordered set of cards keyed by name. It is safe
// for concurrent use.
type Catalog struct {
	cards  []Card
	byName map[string]int
}

// NewCatalog keeps the given order; the first card is the last-resort
// fallback of the selector.
func NewCatalog(cards []Card) (*Catalog, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		cards:  make([]Card, 0, len(cards)),
		byName: make(map[string]int, len(cards)),
	}
	for i, card := range cards {
		if card.Name == "" {
			return nil, fmt.Errorf("card at position %d: %w", i, ErrUnnamedCard)
		}
		if _, exists := c.byName[card.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCard, card.Name)
		}
		card.Keywords = append([]string(nil), card.Keywords...)
		c.byName[card.Name] = len(c.cards)
		c.cards = append(c.cards, card)
	}
	return c, nil
}

// Lookup finds a card by its exact name.
func (c *Catalog) Lookup(name string) (Card, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Card{}, false
	}
	return c.cards[i].clone(), true
}

// First returns the card declared first.
func (c *Catalog) First() Card {
	return c.cards[0].clone()
}

func (c *Catalog) Len() int {
	return len(c.cards)
}

// Cards returns a copy in declaration order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	for i, card := range c.cards {
		out[i] = card.clone()
	}
	return out
}

// MissingCanonical lists the selectable names this catalog does not carry.
func (c *Catalog) MissingCanonical() []string {
	var missing []string
	for _, name := range CanonicalCardNames {
		if _, ok := c.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func (card Card) clone() Card {
	card.Keywords = append([]string(nil), card.Keywords...)
	return card
}

// LoadCatalog parses a YAML catalog document and validates it against the
// catalog JSON schema before building the Catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validateCatalogDocument(raw); err != nil {
		return nil, err
	}

	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(doc.Cards)
}

// LoadCatalogFile reads and parses a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	catalog, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return catalog, nil
}

func validateCatalogDocument(doc interface{}) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidCatalog)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}
	return nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	catalog, err := LoadCatalog(embeddedCards)
	if err != nil {
		panic(fmt.Sprintf("oracle: embedded catalog: %v", err))
	}
	return catalog
})

// DefaultCatalog is the built-in ten-card catalog, parsed once per process.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}
