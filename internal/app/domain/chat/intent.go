package chat

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent classifies what kind of answer a chat message is asking for.
// A closed tagged type so a future intent can be added without touching
// call sites that switch on it.
type Intent string

const (
	IntentTravelPlan           Intent = "travel_plan"
	IntentSimpleRecommendation Intent = "simple_recommendation"
)

// dayCountRe matches an explicit day count such as "3 días" or "2 days".
var dayCountRe = regexp.MustCompile(`(?i)(\d+)\s*(d[ií]as?|days?)`)

// planKeywords are matched as substrings of the folded message. Keep these
// accent-free; fold() strips diacritics from the message before matching.
var planKeywords = []string{
	"plan", "planear", "itinerario", "ruta", "recorrido", "trip", "viaje",
	"conocer", "recorrer", "turistear", "explorar", "visitar encarnacion",
}

// activityVerbs back the "do X and Y" heuristic together with a connective.
var activityVerbs = []string{"comer", "ir", "visitar", "hacer"}

var keywordMatcher = buildKeywordMatcher()

func buildKeywordMatcher() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return builder.Build(planKeywords)
}

// fold lower-cases the message and strips diacritics so "Encarnación" and
// "encarnacion" classify identically.
func fold(message string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(message))
	if err != nil {
		return strings.ToLower(message)
	}
	return folded
}

// DetectIntent decides whether a message asks for a multi-day travel plan or
// a one-shot recommendation. Pure and total: any input, including the empty
// string, yields a classification. The rules are OR'd; any firing rule wins
// for the travel-plan side.
func DetectIntent(message string) Intent {
	folded := fold(message)

	// Rule a: explicit day count ("plan de 3 días", "2 days").
	if dayCountRe.MatchString(folded) {
		return IntentTravelPlan
	}

	// Rule b: planning vocabulary anywhere in the message.
	if len(keywordMatcher.FindAll(folded)) > 0 {
		return IntentTravelPlan
	}

	// Rule c: "do X and Y" phrasing. Spanish swaps "y" for "e" before an
	// i- sound ("comer e ir"), so both connectives count.
	if strings.Contains(folded, " y ") || strings.Contains(folded, " e ") {
		for _, verb := range activityVerbs {
			if strings.Contains(folded, verb) {
				return IntentTravelPlan
			}
		}
	}

	return IntentSimpleRecommendation
}

// DetectDayCount extracts the explicit day count from the message,
// defaulting to 1 when none is present.
func DetectDayCount(message string) int {
	m := dayCountRe.FindStringSubmatch(message)
	if len(m) < 2 {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
