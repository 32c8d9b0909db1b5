package chat

import "regexp"

// Detector decides whether a message asks for the weather in a city.
//
// The heuristic is intentionally literal: the word "weather" must appear
// in the same message as a properly capitalized one- or two-word phrase,
// on either side of the keyword. Lower-case city names are not detected.
type Detector struct {
	after  *regexp.Regexp // weather ... City
	before *regexp.Regexp // City ... weather
}

func NewDetector() *Detector {
	city := `([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`
	return &Detector{
		after:  regexp.MustCompile(`(?i:\bweather\b)` + `.*?\b` + city + `\b`),
		before: regexp.MustCompile(`\b` + city + `\b.*?` + `(?i:\bweather\b)`),
	}
}

// Detect reports whether text triggers the weather path and, if so, the
// candidate city. Tokens after the keyword win over tokens before it.
func (d *Detector) Detect(text string) (bool, string) {
	if m := d.after.FindStringSubmatch(text); m != nil {
		return true, m[1]
	}
	if m := d.before.FindStringSubmatch(text); m != nil {
		return true, m[1]
	}
	return false, ""
}
