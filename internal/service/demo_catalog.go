package service

import "shopassist/internal/model"

// DemoCatalog is served when the catalog store has nothing to offer for a
// query, filtered with the same predicates as a store search.
var DemoCatalog = []model.CatalogProduct{
	{
		ID:              "demo-sofa-velours-bleu",
		Handle:          "canape-velours-bleu-3-places",
		Title:           "Canapé 3 places en velours bleu",
		Description:     "Canapé droit 3 places, assise profonde en mousse haute résilience, pieds en chêne massif.",
		Category:        "canapé",
		Subcategory:     "sofa",
		Brand:           "Maison Démo",
		Price:           449,
		CompareAtPrice:  model.FloatPtr(599),
		StockQty:        12,
		Color:           "bleu",
		Material:        "velours",
		Fabric:          "velvet",
		Style:           "moderne",
		Dimensions:      "210 x 90 x 85 cm",
		Room:            "salon",
		Tags:            []string{"canapé", "velours", "bleu", "salon"},
		ImageURL:        "https://cdn.example.com/demo/canape-velours-bleu.jpg",
		ProductURL:      "https://shop.example.com/products/canape-velours-bleu-3-places",
		ConfidenceScore: 0.92,
	},
	{
		ID:              "demo-table-ronde-chene",
		Handle:          "table-ronde-chene-massif",
		Title:           "Table ronde en chêne massif",
		Description:     "Table à manger ronde pour 4 personnes, plateau en chêne massif huilé.",
		Category:        "table",
		Subcategory:     "dining table",
		Brand:           "Maison Démo",
		Price:           389,
		StockQty:        8,
		Color:           "beige",
		Material:        "chêne",
		Fabric:          "",
		Style:           "scandinave",
		Dimensions:      "",
		Room:            "salle à manger",
		Tags:            []string{"table", "chêne", "scandinave"},
		ImageURL:        "https://cdn.example.com/demo/table-ronde-chene.jpg",
		ProductURL:      "https://shop.example.com/products/table-ronde-chene-massif",
		ConfidenceScore: 0.88,
	},
	{
		ID:              "demo-chaise-scandinave-blanche",
		Handle:          "chaise-scandinave-blanche",
		Title:           "Chaise scandinave blanche",
		Description:     "Chaise coque blanche, pieds en bois de hêtre, assise confortable.",
		Category:        "chaise",
		Subcategory:     "chair",
		Brand:           "Maison Démo",
		Price:           79,
		CompareAtPrice:  model.FloatPtr(99),
		StockQty:        30,
		Color:           "blanc",
		Material:        "bois",
		Fabric:          "",
		Style:           "scandinave",
		Dimensions:      "46 x 53 x 82 cm",
		Room:            "salle à manger",
		Tags:            []string{"chaise", "scandinave", "blanc"},
		ImageURL:        "https://cdn.example.com/demo/chaise-scandinave-blanc.jpg",
		ProductURL:      "https://shop.example.com/products/chaise-scandinave-blanche",
		ConfidenceScore: 0.81,
	},
}
