package service

import (
	"regexp"
	"strconv"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// Vocabularies are checked in order; the first entry found wins and is
// returned as written here.
var (
	categoryTerms = []string{
		"canapé", "sofa", "couch",
		"fauteuil", "armchair",
		"chaise", "chair",
		"table",
		frenchBed, "bed",
		"armoire", "commode", "étagère", "shelf", "rangement", "storage",
		"lampe", "lamp", "miroir", "mirror", "tapis", "rug", "décoration", "decoration",
	}
	colorTerms = []string{
		"blanc", "white", "noir", "black", "gris", "grey", "gray",
		"bleu", "blue", "vert", "green", "rouge", "red", "beige",
		"marron", "brown", "jaune", "yellow",
	}
	materialTerms = []string{
		"velours", "velvet", "cuir", "leather", "bois", "wood", "chêne", "oak",
		"métal", "metal", "tissu", "fabric", "lin", "linen", "marbre", "marble",
	}
	styleTerms = []string{
		"moderne", "modern", "scandinave", "scandinavian", "industriel", "industrial",
		"classique", "classic", "bohème", "boho",
	}
	// "lit" is also English ("a dimly lit room"), so it only counts inside
	// an unambiguously French phrase.
	frenchBedPhrases = []string{
		"un lit", "le lit", "mon lit", "ce lit", "du lit", "nouveau lit", "petit lit", "grand lit",
		"lit double", "lit simple", "lit enfant", "lit bébé", "lit coffre", "lit mezzanine",
		"lit superposé", "lit 1 place", "lit 2 places", "lit deux places",
	}
	roomTerms = []string{
		"salon", "living room", "chambre", "bedroom", "salle à manger", "dining room", "bureau", "office",
	}

	priceCeiling = regexp.MustCompile(`\b(?:under|sous)\s*[€$£]?\s*(\d+(?:[.,]\d+)?)`)
)

const frenchBed = "lit"

// ExtractAttributes turns free text into an attribute bag. Each attribute is
// matched independently against its own vocabulary.
func ExtractAttributes(message string) model.AttributeBag {
	var bag model.AttributeBag

	if term, ok := extractCategory(message); ok {
		bag.Category = model.StrPtr(term)
	}
	if term, ok := utils.FirstTerm(message, colorTerms); ok {
		bag.Color = model.StrPtr(term)
	}
	if term, ok := utils.FirstTerm(message, materialTerms); ok {
		bag.Material = model.StrPtr(term)
	}
	if term, ok := utils.FirstTerm(message, styleTerms); ok {
		bag.Style = model.StrPtr(term)
	}
	if term, ok := utils.FirstTerm(message, roomTerms); ok {
		bag.Room = model.StrPtr(term)
	}
	if price, ok := extractPriceMax(message); ok {
		bag.PriceMax = model.FloatPtr(price)
	}

	return bag
}

// extractCategory walks categoryTerms in order; "lit" keeps its place in the
// order but needs one of frenchBedPhrases to match.
func extractCategory(message string) (string, bool) {
	for _, term := range categoryTerms {
		if term == frenchBed {
			if utils.ContainsAnyTerm(message, frenchBedPhrases) {
				return term, true
			}
			continue
		}
		if utils.ContainsTerm(message, term) {
			return term, true
		}
	}
	return "", false
}

func extractPriceMax(message string) (float64, bool) {
	m := priceCeiling.FindStringSubmatch(strings.ToLower(message))
	if len(m) < 2 {
		return 0, false
	}
	raw := m[1]
	// "1,200" and "1.200" are thousands; "499,90" is a decimal comma.
	if i := strings.IndexAny(raw, ".,"); i >= 0 && len(raw)-i-1 == 3 {
		raw = raw[:i] + raw[i+1:]
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
