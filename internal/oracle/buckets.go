// internal/oracle/buckets.go
package oracle

// Season is the coarse bucket derived from the birth month.
type Season string

const (
	SeasonWinter  Season = "winter"
	SeasonSpring  Season = "spring"
	SeasonSummer  Season = "summer"
	SeasonAutumn  Season = "autumn"
	SeasonUnknown Season = "unknown"
)

// Element is derived from Season and only biases ordering.
type Element string

const (
	ElementWater Element = "water"
	ElementAir   Element = "air"
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	// ElementNone belongs to SeasonUnknown; no card is favored.
	ElementNone Element = ""
)

// EnergyTier buckets the free-text energy answer.
type EnergyTier int

const (
	TierLow  EnergyTier = 1
	TierMid  EnergyTier = 2
	TierHigh EnergyTier = 3
)

func (t EnergyTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierHigh:
		return "high"
	default:
		return "mid"
	}
}

var monthSeasons = map[string]Season{
	"dec": SeasonWinter, "jan": SeasonWinter, "feb": SeasonWinter,
	"mar": SeasonSpring, "apr": SeasonSpring, "may": SeasonSpring,
	"jun": SeasonSummer, "jul": SeasonSummer, "aug": SeasonSummer,
	"sep": SeasonAutumn, "oct": SeasonAutumn, "nov": SeasonAutumn,
}

var seasonElements = map[Season]Element{
	SeasonWinter: ElementWater,
	SeasonSpring: ElementAir,
	SeasonSummer: ElementFire,
	SeasonAutumn: ElementEarth,
}

var (
	lowEnergyKeywords  = []string{"calm", "low", "rest", "soft", "gentle"}
	highEnergyKeywords = []string{"intense", "high", "surge", "amped", "charged"}
)

// SeasonOf inspects the first three characters of the lower-cased month.
func SeasonOf(birthMonth string) Season {
	prefix := []rune(normalize(birthMonth))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if season, ok := monthSeasons[string(prefix)]; ok {
		return season
	}
	return SeasonUnknown
}

// ElementOf returns ElementNone for SeasonUnknown.
func ElementOf(season Season) Element {
	return seasonElements[season]
}

// TierOf checks low keywords before high ones; anything else is mid.
func TierOf(energyLevel string) EnergyTier {
	text := normalize(energyLevel)
	switch {
	case containsAny(text, lowEnergyKeywords):
		return TierLow
	case containsAny(text, highEnergyKeywords):
		return TierHigh
	default:
		return TierMid
	}
}
