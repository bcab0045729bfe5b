package nutrient

import "strings"

// Nutrient categories in display order.
const (
	CategoryProximates       = "Proximates"
	CategoryCarbohydrates    = "Carbohydrates"
	CategoryMinerals         = "Minerals"
	CategoryVitamins         = "Vitamins and Other Components"
	CategoryLipids           = "Lipids"
	CategoryAminoAcids       = "Amino acids"
	CategoryPhytosterols     = "Phytosterols"
	CategoryOrganicAcids     = "Organic acids"
	CategoryOligosaccharides = "Oligosaccharides"
	CategoryIsoflavones      = "Isoflavones"
	CategoryOther            = "Other"
)

type catalogGroup struct {
	category string
	names    []string
}

// buildCatalog returns the static nutrient taxonomy: categories in fixed
// order, each with a fixed intra-category name order.
func buildCatalog() []catalogGroup {
	return []catalogGroup{
		{CategoryProximates, []string{
			"Water",
			"Energy",
			"Nitrogen",
			"Protein",
			"Total fat (NLEA)",
			"Total lipid (fat)",
			"Ash",
			"Carbohydrate, by difference",
		}},
		{CategoryCarbohydrates, []string{
			"Fiber, total dietary",
			"Fiber, soluble",
			"Fiber, insoluble",
			"Total dietary fiber (AOAC 2011.25)",
			"High Molecular Weight Dietary Fiber (HMWDF)",
			"Low Molecular Weight Dietary Fiber (LMWDF)",
			"Sugars, Total",
			"Sucrose",
			"Glucose",
			"Fructose",
			"Lactose",
			"Maltose",
			"Galactose",
			"Starch",
			"Resistant starch",
			"Sugars, added",
		}},
		{CategoryMinerals, []string{
			"Calcium, Ca",
			"Iron, Fe",
			"Magnesium, Mg",
			"Phosphorus, P",
			"Potassium, K",
			"Sodium, Na",
			"Zinc, Zn",
			"Copper, Cu",
			"Manganese, Mn",
			"Iodine, I",
			"Selenium, Se",
			"Molybdenum, Mo",
			"Fluoride, F",
		}},
		{CategoryVitamins, []string{
			"Thiamin",
			"Riboflavin",
			"Niacin",
			"Vitamin B-6",
			"Folate, total",
			"Folic acid",
			"Folate, DFE",
			"Choline, total",
			"Choline, free",
			"Choline, from phosphocholine",
			"Choline, from phosphatidyl choline",
			"Choline, from glycerophosphocholine",
			"Choline, from sphingomyelin",
			"Betaine",
			"Vitamin B-12",
			"Vitamin B-12, added",
			"Vitamin A, RAE",
			"Retinol",
			"Carotene, beta",
			"cis-beta-Carotene",
			"trans-beta-Carotene",
			"Carotene, alpha",
			"Carotene, gamma",
			"Cryptoxanthin, beta",
			"Cryptoxanthin, alpha",
			"Vitamin A, IU",
			"Lycopene",
			"cis-Lycopene",
			"trans-Lycopene",
			"Lutein + zeaxanthin",
			"cis-Lutein/Zeaxanthin",
			"Lutein",
			"Zeaxanthin",
			"Phytoene",
			"Phytofluene",
			"Vitamin D (D2 + D3), International Units",
			"Vitamin D (D2 + D3)",
			"Vitamin D2 (ergocalciferol)",
			"Vitamin D3 (cholecalciferol)",
			"25-hydroxycholecalciferol",
			"Vitamin K (phylloquinone)",
			"Vitamin K (Dihydrophylloquinone)",
			"Vitamin K (Menaquinone-4)",
			"Vitamin E (alpha-tocopherol)",
			"Vitamin E, added",
			"Tocopherol, beta",
			"Tocopherol, gamma",
			"Tocopherol, delta",
			"Tocotrienol, alpha",
			"Tocotrienol, beta",
			"Tocotrienol, gamma",
			"Tocotrienol, delta",
			"Vitamin C, total ascorbic acid",
			"Pantothenic acid",
			"Biotin",
			"Caffeine",
			"Theobromine",
		}},
		{CategoryLipids, []string{
			"Fatty acids, total saturated",
			"SFA 4:0",
			"SFA 5:0",
			"SFA 6:0",
			"SFA 7:0",
			"SFA 8:0",
			"SFA 9:0",
			"SFA 10:0",
			"SFA 11:0",
			"SFA 12:0",
			"SFA 13:0",
			"SFA 14:0",
			"SFA 15:0",
			"SFA 16:0",
			"SFA 17:0",
			"SFA 18:0",
			"SFA 20:0",
			"SFA 21:0",
			"SFA 22:0",
			"SFA 23:0",
			"SFA 24:0",
			"Fatty acids, total monounsaturated",
			"MUFA 12:1",
			"MUFA 14:1",
			"MUFA 14:1 c",
			"MUFA 15:1",
			"MUFA 16:1",
			"MUFA 16:1 c",
			"MUFA 17:1",
			"MUFA 17:1 c",
			"MUFA 18:1",
			"MUFA 18:1 c",
			"MUFA 20:1",
			"MUFA 20:1 c",
			"MUFA 22:1",
			"MUFA 22:1 c",
			"MUFA 22:1 n-9",
			"MUFA 22:1 n-11",
			"MUFA 24:1 c",
			"Fatty acids, total polyunsaturated",
			"PUFA 18:2",
			"PUFA 18:2 c",
			"PUFA 18:2 n-6 c,c",
			"PUFA 18:2 CLAs",
			"PUFA 18:2 i",
			"PUFA 18:3",
			"PUFA 18:3 c",
			"PUFA 18:3 n-3 c,c,c (ALA)",
			"PUFA 18:3 n-6 c,c,c",
			"PUFA 18:4",
			"PUFA 20:2 c",
			"PUFA 20:2 n-6 c,c",
			"PUFA 20:3",
			"PUFA 20:3 c",
			"PUFA 20:3 n-3",
			"PUFA 20:3 n-6",
			"PUFA 20:3 n-9",
			"PUFA 20:4",
			"PUFA 20:4c",
			"PUFA 20:5c",
			"PUFA 20:5 n-3 (EPA)",
			"PUFA 22:2",
			"PUFA 22:3",
			"PUFA 22:4",
			"PUFA 22:5 c",
			"PUFA 22:5 n-3 (DPA)",
			"PUFA 22:6 c",
			"PUFA 22:6 n-3 (DHA)",
			"Fatty acids, total trans",
			"Fatty acids, total trans-monoenoic",
			"Fatty acids, total trans-dienoic",
			"Fatty acids, total trans-polyenoic",
			"TFA 14:1 t",
			"TFA 16:1 t",
			"TFA 18:1 t",
			"TFA 18:2 t",
			"TFA 18:2 t,t",
			"TFA 18:2 t not further defined",
			"TFA 18:3 t",
			"TFA 20:1 t",
			"TFA 22:1 t",
			"Cholesterol",
		}},
		{CategoryAminoAcids, []string{
			"Tryptophan",
			"Threonine",
			"Isoleucine",
			"Leucine",
			"Lysine",
			"Methionine",
			"Phenylalanine",
			"Tyrosine",
			"Valine",
			"Arginine",
			"Histidine",
			"Alanine",
			"Aspartic acid",
			"Glutamic acid",
			"Glycine",
			"Proline",
			"Serine",
			"Hydroxyproline",
			"Cysteine",
		}},
		{CategoryPhytosterols, []string{
			"Phytosterols",
			"Beta-sitosterol",
			"Brassicasterol",
			"Campesterol",
			"Campestanol",
			"Delta-5-avenasterol",
			"Phytosterols, other",
			"Stigmasterol",
			"Beta-sitostanol",
		}},
		{CategoryOrganicAcids, []string{"Citric acid", "Malic acid", "Oxalic acid", "Quinic acid"}},
		{CategoryOligosaccharides, []string{"Verbascose", "Raffinose", "Stachyose"}},
		{CategoryIsoflavones, []string{"Daidzin", "Genistin", "Glycitin", "Daidzein", "Genistein"}},
	}
}

// buildUnitMap returns source-style default units for known nutrients.
func buildUnitMap() map[string]string {
	unitMap := make(map[string]string)
	set := func(names []string, unit string) {
		for _, name := range names {
			unitMap[strings.ToLower(strings.TrimSpace(name))] = unit
		}
	}

	set([]string{
		"Calcium, Ca",
		"Iron, Fe",
		"Magnesium, Mg",
		"Phosphorus, P",
		"Potassium, K",
		"Sodium, Na",
		"Zinc, Zn",
		"Copper, Cu",
		"Manganese, Mn",
	}, "mg")
	set([]string{
		"Iodine, I",
		"Selenium, Se",
		"Molybdenum, Mo",
		"Fluoride, F",
	}, "μg")
	set([]string{
		"Thiamin",
		"Riboflavin",
		"Niacin",
		"Vitamin B-6",
		"Choline, total",
		"Choline, free",
		"Choline, from phosphocholine",
		"Choline, from phosphatidyl choline",
		"Choline, from glycerophosphocholine",
		"Choline, from sphingomyelin",
		"Betaine",
		"Vitamin E (alpha-tocopherol)",
		"Vitamin E, added",
		"Tocopherol, beta",
		"Tocopherol, gamma",
		"Tocopherol, delta",
		"Tocotrienol, alpha",
		"Tocotrienol, beta",
		"Tocotrienol, gamma",
		"Tocotrienol, delta",
		"Vitamin C, total ascorbic acid",
		"Pantothenic acid",
		"Caffeine",
		"Theobromine",
	}, "mg")
	set([]string{
		"Folate, total",
		"Folic acid",
		"Folate, DFE",
		"Vitamin B-12",
		"Vitamin B-12, added",
		"Vitamin A, RAE",
		"Retinol",
		"Carotene, beta",
		"cis-beta-Carotene",
		"trans-beta-Carotene",
		"Carotene, alpha",
		"Carotene, gamma",
		"Cryptoxanthin, beta",
		"Cryptoxanthin, alpha",
		"Lycopene",
		"cis-Lycopene",
		"trans-Lycopene",
		"Lutein + zeaxanthin",
		"cis-Lutein/Zeaxanthin",
		"Lutein",
		"Zeaxanthin",
		"Phytoene",
		"Phytofluene",
		"Vitamin D (D2 + D3)",
		"Vitamin D2 (ergocalciferol)",
		"Vitamin D3 (cholecalciferol)",
		"25-hydroxycholecalciferol",
		"Vitamin K (phylloquinone)",
		"Vitamin K (Dihydrophylloquinone)",
		"Vitamin K (Menaquinone-4)",
		"Biotin",
	}, "μg")
	set([]string{
		"Vitamin A, IU",
		"Vitamin D (D2 + D3), International Units",
	}, "iu")
	set([]string{
		"Cholesterol",
		"Phytosterols",
		"Beta-sitosterol",
		"Brassicasterol",
		"Campesterol",
		"Campestanol",
		"Delta-5-avenasterol",
		"Phytosterols, other",
		"Stigmasterol",
		"Beta-sitostanol",
	}, "mg")
	set([]string{"Citric acid", "Malic acid", "Oxalic acid", "Quinic acid"}, "mg")
	set([]string{"Daidzin", "Genistin", "Glycitin", "Daidzein", "Genistein"}, "mg")
	set([]string{"Verbascose", "Raffinose", "Stachyose"}, "g")
	set([]string{"Energy"}, "kcal")

	return unitMap
}
