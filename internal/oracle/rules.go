// internal/oracle/rules.go
package oracle

// Canonical card names.
const (
	CardCosmicMessenger     = "The Cosmic Messenger"
	CardInterstellarJourney = "The Interstellar Journey"
	CardMartianThreshold    = "The Martian Threshold"
	CardSolarWind           = "The Solar Wind"
	CardDeepSpaceEcho       = "The Deep Space Echo"
	CardPerihelionMoment    = "The Perihelion Moment"
	CardHyperbolicPath      = "The Hyperbolic Path"
	CardCosmicDebris        = "The Cosmic Debris"
	CardObservatoryMoment   = "The Observatory Moment"
	CardInfiniteTrajectory  = "The Infinite Trajectory"

	// DefaultCardName is served when a drawn name is missing from the catalog.
	DefaultCardName = CardInterstellarJourney
)

// CanonicalCardNames lists every name the selector can produce.
var CanonicalCardNames = []string{
	CardCosmicMessenger,
	CardInterstellarJourney,
	CardMartianThreshold,
	CardSolarWind,
	CardDeepSpaceEcho,
	CardPerihelionMoment,
	CardHyperbolicPath,
	CardCosmicDebris,
	CardObservatoryMoment,
	CardInfiniteTrajectory,
}

type focusRule struct {
	category  string
	keywords  []string
	shortlist [2]string
}

// Evaluated top-down, first match wins. Keywords are substrings, so
// "communicat" covers communicate and communication.
var focusRules = []focusRule{
	{
		category:  "beginnings",
		keywords:  []string{"new", "begin", "adventure", "change", "travel", "start"},
		shortlist: [2]string{CardInterstellarJourney, CardInfiniteTrajectory},
	},
	{
		category:  "intuition",
		keywords:  []string{"intuition", "inner", "spiritual", "dream", "sign"},
		shortlist: [2]string{CardDeepSpaceEcho, CardSolarWind},
	},
	{
		category:  "clarity",
		keywords:  []string{"clarity", "decision", "strategy", "truth", "seen", "visibility"},
		shortlist: [2]string{CardObservatoryMoment, CardPerihelionMoment},
	},
	{
		category:  "ambition",
		keywords:  []string{"work", "career", "money", "material", "achievement", "deadline", "pressure"},
		shortlist: [2]string{CardMartianThreshold, CardPerihelionMoment},
	},
	{
		category:  "communication",
		keywords:  []string{"communicat", "message", "signal", "synchro"},
		shortlist: [2]string{CardCosmicMessenger, CardDeepSpaceEcho},
	},
	{
		category:  "transformation",
		keywords:  []string{"transform", "let go", "no return", "point of no return", "irreversible"},
		shortlist: [2]string{CardHyperbolicPath, CardCosmicDebris},
	},
}

const defaultFocusCategory = "open"

var defaultShortlist = [2]string{CardInterstellarJourney, CardObservatoryMoment}

var favoredCards = map[Element][]string{
	ElementWater: {CardDeepSpaceEcho, CardCosmicMessenger},
	ElementAir:   {CardObservatoryMoment, CardSolarWind},
	ElementFire:  {CardPerihelionMoment, CardMartianThreshold, CardHyperbolicPath},
	ElementEarth: {CardCosmicDebris, CardInterstellarJourney},
}

// shortlistFor returns the focus category and a fresh copy of its pair.
func shortlistFor(currentFocus string) (string, []string) {
	text := normalize(currentFocus)
	for _, rule := range focusRules {
		if containsAny(text, rule.keywords) {
			return rule.category, []string{rule.shortlist[0], rule.shortlist[1]}
		}
	}
	return defaultFocusCategory, []string{defaultShortlist[0], defaultShortlist[1]}
}

func isFavored(element Element, name string) bool {
	for _, favored := range favoredCards[element] {
		if favored == name {
			return true
		}
	}
	return false
}

// IsCanonical reports whether name is one of the ten selectable cards.
func IsCanonical(name string) bool {
	for _, canonical := range CanonicalCardNames {
		if canonical == name {
			return true
		}
	}
	return false
}
