package service

import (
	"regexp"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

const largerSizeSurcharge = 50.0

var (
	chairTerms       = []string{"chaise", "chair", "fauteuil", "armchair"}
	sofaTerms        = []string{"canapé", "sofa", "couch"}
	coffeeTableTerms = []string{"coffee table", "table basse", "table de salon", "side table", "bout de canapé"}
	roundTerms       = []string{"ronde", "rond", "round"}

	chairColors = []string{"Noir", "Blanc", "Gris", "Naturel"}
	sofaColors  = []string{"Gris anthracite", "Beige", "Bleu nuit", "Vert sauge"}
	finishes    = []string{"Chêne naturel", "Noyer foncé", "Laqué blanc"}

	dimensionSeparators = regexp.MustCompile(`\s*(?:/|\||;|\bor\b|\bou\b)\s*`)
)

// variantOption is one synthesized choice before ids, prices and stock are assigned
type variantOption struct {
	label      string
	color      string
	size       string
	finish     string
	surcharge  float64
	colorImage bool
}

// variantRule is one row of the synthesizer table; the first matching rule wins
type variantRule struct {
	name       string
	stockFloor int
	matches    func(p model.CatalogProduct) bool
	options    func(p model.CatalogProduct) []variantOption
}

var variantRules = []variantRule{
	{
		name:       "chair",
		stockFloor: 10,
		matches:    func(p model.CatalogProduct) bool { return inCategory(p, chairTerms) },
		options:    func(p model.CatalogProduct) []variantOption { return colorOptions(p, chairColors, 3) },
	},
	{
		name:       "sofa",
		stockFloor: 15,
		matches:    func(p model.CatalogProduct) bool { return inCategory(p, sofaTerms) },
		options:    func(p model.CatalogProduct) []variantOption { return colorOptions(p, sofaColors, 3) },
	},
	{
		name:       "table",
		stockFloor: 20,
		matches: func(p model.CatalogProduct) bool {
			return utils.ContainsTerm(productText(p), "table") && !isCoffeeTable(p)
		},
		options: sizeOptions,
	},
	{
		name:       "coffee_table",
		stockFloor: 15,
		matches:    isCoffeeTable,
		options:    func(p model.CatalogProduct) []variantOption { return finishOptions(p, 2) },
	},
}

// VariantSynthesizer derives purchasable options from a catalog product.
// Output depends only on the product, so ids are stable across calls.
type VariantSynthesizer struct{}

// NewVariantSynthesizer creates a synthesizer
func NewVariantSynthesizer() *VariantSynthesizer {
	return &VariantSynthesizer{}
}

// Synthesize returns at least one variant for p
func (s *VariantSynthesizer) Synthesize(p model.CatalogProduct) []model.ProductVariant {
	for _, rule := range variantRules {
		if !rule.matches(p) {
			continue
		}
		options := rule.options(p)
		if len(options) == 0 {
			break
		}
		return buildVariants(p, options, rule.stockFloor)
	}
	return []model.ProductVariant{defaultVariant(p)}
}

func buildVariants(p model.CatalogProduct, options []variantOption, floor int) []model.ProductVariant {
	stock := floor
	if p.StockQty > 0 {
		stock = p.StockQty / len(options)
	}

	variants := make([]model.ProductVariant, 0, len(options))
	for _, opt := range options {
		price := p.Price + opt.surcharge
		var compareAt *float64
		if p.CompareAtPrice != nil {
			compareAt = model.FloatPtr(*p.CompareAtPrice + opt.surcharge)
		}

		image := p.ImageURL
		if opt.colorImage {
			image = substituteColor(p.ImageURL, p.Color, opt.color)
		}

		variants = append(variants, model.ProductVariant{
			ID:              variantID(p.ID, opt.label),
			Title:           p.Title + " - " + opt.label,
			Color:           opt.color,
			Size:            opt.size,
			Finish:          opt.finish,
			Price:           price,
			CompareAtPrice:  compareAt,
			DiscountPercent: model.DiscountPercent(price, compareAt),
			ImageURL:        image,
			StockQty:        stock,
		})
	}
	return variants
}

func defaultVariant(p model.CatalogProduct) model.ProductVariant {
	return model.ProductVariant{
		ID:              p.ID + "-default",
		Title:           p.Title,
		Color:           p.Color,
		Size:            p.Dimensions,
		Finish:          p.Material,
		Price:           p.Price,
		CompareAtPrice:  p.CompareAtPrice,
		DiscountPercent: model.DiscountPercent(p.Price, p.CompareAtPrice),
		ImageURL:        p.ImageURL,
		StockQty:        p.StockQty,
	}
}

// colorOptions puts the product's own colour first, then fallbacks, skipping
// spellings of a colour already offered.
func colorOptions(p model.CatalogProduct, fallbacks []string, n int) []variantOption {
	var colors []string
	if c := strings.TrimSpace(p.Color); c != "" {
		colors = append(colors, capitalize(c))
	}
	colors = appendDistinct(colors, fallbacks, n)

	options := make([]variantOption, 0, len(colors))
	for _, c := range colors {
		options = append(options, variantOption{label: c, color: c, colorImage: true})
	}
	return options
}

// sizeOptions uses the listed dimensions when present, else two stock sizes
func sizeOptions(p model.CatalogProduct) []variantOption {
	if dims := strings.TrimSpace(p.Dimensions); dims != "" {
		var options []variantOption
		seen := map[string]bool{}
		for _, size := range dimensionSeparators.Split(dims, -1) {
			size = strings.TrimSpace(size)
			slug := utils.Slug(size)
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true
			options = append(options, variantOption{label: size, size: size})
		}
		if len(options) > 0 {
			return options
		}
	}

	small, large := "160 x 90 cm", "200 x 100 cm"
	if utils.ContainsAnyTerm(productText(p), roundTerms) {
		small, large = "Ø90 cm", "Ø120 cm"
	}
	return []variantOption{
		{label: small, size: small},
		{label: large, size: large, surcharge: largerSizeSurcharge},
	}
}

func finishOptions(p model.CatalogProduct, n int) []variantOption {
	var labels []string
	if m := strings.TrimSpace(p.Material); m != "" {
		labels = append(labels, capitalize(m))
	}
	labels = appendDistinct(labels, finishes, n)

	options := make([]variantOption, 0, len(labels))
	for _, f := range labels {
		options = append(options, variantOption{label: f, finish: f})
	}
	return options
}

// appendDistinct fills list up to n from candidates, skipping aliases and duplicate slugs
func appendDistinct(list, candidates []string, n int) []string {
	for _, c := range candidates {
		if len(list) >= n {
			break
		}
		dup := false
		for _, existing := range list {
			if utils.SameTerm(existing, c) || utils.Slug(existing) == utils.Slug(c) {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, c)
		}
	}
	return list
}

func variantID(productID, discriminator string) string {
	return productID + "-" + utils.Slug(discriminator)
}

// substituteColor swaps the last occurrence of the product colour slug in
// url for the variant colour slug. Unknown layouts pass through unchanged.
func substituteColor(url, baseColor, variantColor string) string {
	from, to := utils.Slug(baseColor), utils.Slug(variantColor)
	if url == "" || from == "" || to == "" || from == to {
		return url
	}
	i := strings.LastIndex(strings.ToLower(url), from)
	if i < 0 {
		return url
	}
	return url[:i] + to + url[i+len(from):]
}

func inCategory(p model.CatalogProduct, terms []string) bool {
	for _, term := range terms {
		if utils.MatchesAlias(p.Category, term) || utils.MatchesAlias(p.Subcategory, term) {
			return true
		}
	}
	return false
}

func isCoffeeTable(p model.CatalogProduct) bool {
	return utils.ContainsAnyTerm(productText(p), coffeeTableTerms)
}

func productText(p model.CatalogProduct) string {
	return p.Title + " " + p.Category + " " + p.Subcategory
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
