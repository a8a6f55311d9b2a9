package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

	turkishLower = cases.Lower(language.Turkish)

	// letters that carry no combining mark to strip
	foldReplacer = strings.NewReplacer(
		"ı", "i",
		"ß", "ss",
		"æ", "ae",
		"ø", "o",
		"œ", "oe",
		"đ", "d",
		"ł", "l",
	)
)

// Make lower-cases s with Turkish rules, strips accents and joins the
// remaining alphanumeric runs with single hyphens. Make(Make(s)) == Make(s).
func Make(s string) string {
	s = turkishLower.String(strings.TrimSpace(s))
	s = foldReplacer.Replace(s)
	s = stripMarks(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
