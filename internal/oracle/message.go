// internal/oracle/message.go
package oracle

import (
	"strings"
	"unicode"
)

const defaultGreetingName = "Traveler"

var tierLines = map[EnergyTier]string{
	TierLow:  "Move gently; the slow orbit still arrives.",
	TierMid:  "Keep a steady pace and watch for the turn.",
	TierHigh: "Your energy is running hot, so aim it before you spend it.",
}

var elementLines = map[Element]string{
	ElementWater: "Water season asks you to listen before you answer.",
	ElementAir:   "Air season favors the view from a little higher up.",
	ElementFire:  "Fire season rewards the bold, clear move.",
	ElementEarth: "Earth season wants something you can hold in your hands.",
}

// Personalize builds the text shown beside the card. It reads only its
// arguments, so the same reading and input give the same message.
func Personalize(reading Reading, input SurveyInput) string {
	var b strings.Builder
	b.WriteString(greetingName(input.Name))
	b.WriteString(", ")

	message := strings.TrimSpace(reading.Card.Message)
	if message == "" {
		message = "the sky has drawn " + reading.Card.Name + " for you."
	}
	b.WriteString(message)

	b.WriteString(" ")
	b.WriteString(tierLines[reading.Tier])

	if line, ok := elementLines[reading.Element]; ok {
		b.WriteString(" ")
		b.WriteString(line)
	}
	return b.String()
}

// greetingName uses the first word of the name with its first letter
// upper-cased.
func greetingName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return defaultGreetingName
	}
	runes := []rune(fields[0])
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
