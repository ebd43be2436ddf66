// internal/oracle/selector.go
package oracle

// Draw is the catalog-free result of the selection algorithm, with the
// intermediate buckets kept for logging.
type Draw struct {
	Hash          uint32     `json:"hash"`
	Season        Season     `json:"season"`
	Element       Element    `json:"element"`
	Tier          EnergyTier `json:"tier"`
	FocusCategory string     `json:"focusCategory"`
	Shortlist     []string   `json:"shortlist"`
	Index         int        `json:"index"`
	CardName      string     `json:"cardName"`
}

// Reading is a Draw resolved against a catalog.
type Reading struct {
	Draw
	Card     Card `json:"card"`
	Fallback bool `json:"fallback"`
}

// Compute runs the selection algorithm on the survey alone. The same input
// always yields the same Draw.
func Compute(input SurveyInput) Draw {
	hash := FNV1a32(input.Seed())
	season := SeasonOf(input.BirthMonth)
	element := ElementOf(season)
	tier := TierOf(input.EnergyLevel)
	category, pair := shortlistFor(input.CurrentFocus)

	pair = reorderByTier(pair, tier, hash)
	pair = reorderByElement(pair, element)

	index := 0
	if len(pair) > 1 {
		index = int(hash % uint32(len(pair)))
	}

	return Draw{
		Hash:          hash,
		Season:        season,
		Element:       element,
		Tier:          tier,
		FocusCategory: category,
		Shortlist:     pair,
		Index:         index,
		CardName:      pair[index],
	}
}

func reorderByTier(pair []string, tier EnergyTier, hash uint32) []string {
	switch tier {
	case TierHigh:
		return swapped(pair)
	case TierMid:
		if hash&1 == 1 {
			return swapped(pair)
		}
	}
	return pair
}

func reorderByElement(pair []string, element Element) []string {
	if len(pair) != 2 || element == ElementNone {
		return pair
	}
	if isFavored(element, pair[1]) && !isFavored(element, pair[0]) {
		return swapped(pair)
	}
	return pair
}

func swapped(pair []string) []string {
	if len(pair) != 2 {
		return pair
	}
	return []string{pair[1], pair[0]}
}

// Selector resolves draws against a fixed catalog.
type Selector struct {
	catalog *Catalog
}

// NewSelector binds a catalog; nil means DefaultCatalog.
func NewSelector(catalog *Catalog) *Selector {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Selector{catalog: catalog}
}

func (s *Selector) Catalog() *Catalog {
	return s.catalog
}

// Draw computes the card for input. A name missing from the catalog falls
// back to DefaultCardName, then to the first catalog entry.
func (s *Selector) Draw(input SurveyInput) Reading {
	draw := Compute(input)
	if card, ok := s.catalog.Lookup(draw.CardName); ok {
		return Reading{Draw: draw, Card: card}
	}
	if card, ok := s.catalog.Lookup(DefaultCardName); ok {
		return Reading{Draw: draw, Card: card, Fallback: true}
	}
	return Reading{Draw: draw, Card: s.catalog.First(), Fallback: true}
}

// Select returns only the card of Draw.
func (s *Selector) Select(input SurveyInput) Card {
	return s.Draw(input).Card
}

// SelectCard is shorthand for NewSelector(catalog).Select(input).
func SelectCard(input SurveyInput, catalog *Catalog) Card {
	return NewSelector(catalog).Select(input)
}
