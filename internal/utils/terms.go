package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliasGroups ties French and English forms of the same furniture concept
// together so that "canapé" also finds products stored as "sofa".
var aliasGroups = [][]string{
	// categories
	{"canapé", "sofa", "couch"},
	{"fauteuil", "armchair"},
	{"chaise", "chair"},
	{"table"},
	{"lit", "bed"},
	{"armoire", "wardrobe"},
	{"commode", "dresser"},
	{"étagère", "shelf", "bookcase"},
	{"rangement", "storage"},
	{"lampe", "lamp"},
	{"miroir", "mirror"},
	{"tapis", "rug"},
	{"décoration", "decoration", "déco", "decor"},
	// colours
	{"blanc", "white"},
	{"noir", "black"},
	{"gris", "grey", "gray"},
	{"bleu", "blue", "navy"},
	{"vert", "green"},
	{"rouge", "red"},
	{"beige", "sand", "cream"},
	{"marron", "brown"},
	{"jaune", "yellow"},
	// materials
	{"velours", "velvet"},
	{"cuir", "leather"},
	{"bois", "wood", "wooden", "chêne", "oak"},
	{"métal", "metal"},
	{"tissu", "fabric"},
	{"lin", "linen"},
	{"marbre", "marble"},
	// styles
	{"moderne", "modern", "contemporain", "contemporary"},
	{"scandinave", "scandinavian", "nordic"},
	{"industriel", "industrial"},
	{"classique", "classic"},
	{"bohème", "boho", "bohemian"},
	// rooms
	{"salon", "living room", "séjour"},
	{"chambre", "bedroom"},
	{"salle à manger", "dining room"},
	{"bureau", "office"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, group := range aliasGroups {
		for _, term := range group {
			idx[Fold(term)] = group
		}
	}
	return idx
}

// Fold lower-cases s and strips diacritics ("Canapé" -> "canape").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ReplaceAll(out, "’", "'")
	return strings.ToLower(out)
}

// Slug folds s and keeps only ASCII letters and digits.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range Fold(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Aliases returns every known spelling of term, accented and folded,
// or just term when it belongs to no group.
func Aliases(term string) []string {
	group, ok := aliasIndex[Fold(strings.TrimSpace(term))]
	if !ok {
		return []string{strings.TrimSpace(term)}
	}
	seen := make(map[string]bool, len(group)*2)
	out := make([]string, 0, len(group)*2)
	for _, alias := range group {
		for _, form := range []string{alias, Fold(alias)} {
			if !seen[form] {
				seen[form] = true
				out = append(out, form)
			}
		}
	}
	return out
}

// Aliases shorter than this only match whole words: "lit" is not "lighting"
// and "bed" is not "bedroom".
const minSubstringAlias = 4

// WholeWordOnly reports whether alias is too short to match as a substring.
func WholeWordOnly(alias string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(alias)) < minSubstringAlias
}

// MatchesAlias reports whether value contains term or any of its aliases,
// case and accent insensitive (the in-memory ILIKE). Short aliases must
// appear as whole words.
func MatchesAlias(value, term string) bool {
	folded := Fold(value)
	if folded == "" || strings.TrimSpace(term) == "" {
		return false
	}
	for _, alias := range Aliases(term) {
		if WholeWordOnly(alias) {
			if ContainsTerm(folded, alias) {
				return true
			}
			continue
		}
		if strings.Contains(folded, Fold(alias)) {
			return true
		}
	}
	return false
}

// LikePatterns returns the ILIKE patterns for every spelling of term. Short
// aliases get space-delimited word patterns, singular and plural, instead
// of a bare %alias%.
func LikePatterns(term string) []string {
	var patterns []string
	for _, alias := range Aliases(term) {
		if !WholeWordOnly(alias) {
			patterns = append(patterns, "%"+alias+"%")
			continue
		}
		for _, form := range []string{alias, alias + "s"} {
			patterns = append(patterns, form, form+" %", "% "+form, "% "+form+" %")
		}
	}
	return patterns
}

// SameTerm reports whether a and b are spellings of the same concept.
func SameTerm(a, b string) bool {
	fa, fb := Fold(strings.TrimSpace(a)), Fold(strings.TrimSpace(b))
	if fa == "" || fb == "" {
		return false
	}
	if fa == fb {
		return true
	}
	for _, alias := range Aliases(a) {
		if Fold(alias) == fb {
			return true
		}
	}
	return false
}

// ContainsTerm reports whether term occurs in text as a whole word or
// phrase, allowing a plural suffix. Both sides are folded first.
func ContainsTerm(text, term string) bool {
	text, term = Fold(text), Fold(term)
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if wordStart(text, start) && wordEnd(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

// FirstTerm returns the first vocabulary entry found in text.
func FirstTerm(text string, vocabulary []string) (string, bool) {
	for _, term := range vocabulary {
		if ContainsTerm(text, term) {
			return term, true
		}
	}
	return "", false
}

// ContainsAnyTerm reports whether any vocabulary entry occurs in text.
func ContainsAnyTerm(text string, vocabulary []string) bool {
	_, ok := FirstTerm(text, vocabulary)
	return ok
}

func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(text[:i])
	return !isWordRune(r)
}

func wordEnd(text string, i int) bool {
	rest := text[i:]
	for _, suffix := range []string{"es", "s", "x"} {
		if strings.HasPrefix(rest, suffix) && boundaryAt(rest[len(suffix):]) {
			return true
		}
	}
	return boundaryAt(rest)
}

func boundaryAt(rest string) bool {
	if rest == "" {
		return true
	}
	for _, r := range rest {
		return !isWordRune(r)
	}
	return true
}

func lastRune(s string) rune {
	rs := []rune(s)
	return rs[len(rs)-1]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
