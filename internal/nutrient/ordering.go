package nutrient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"formulator/internal/units"
)

// Ordering provides a stable nutrient order, identity keys and category
// inference, used to merge records from heterogeneous sources without
// duplicating rows or columns.
type Ordering struct {
	orderMap    map[string]int
	categoryMap map[string]string
	unitMap     map[string]string
	reference   map[string]referenceInfo
}

type referenceInfo struct {
	rank     *int
	category string
	unit     string
}

// NewOrdering builds an Ordering over the static catalog.
func NewOrdering() *Ordering {
	catalog := buildCatalog()
	o := &Ordering{
		orderMap:    make(map[string]int),
		categoryMap: make(map[string]string),
		unitMap:     buildUnitMap(),
		reference:   make(map[string]referenceInfo),
	}
	for idx, group := range catalog {
		for offset, name := range group.names {
			key := strings.ToLower(strings.TrimSpace(name))
			o.orderMap[key] = idx*1000 + offset
			o.categoryMap[key] = group.category
		}
	}
	return o
}

// OrderFor returns the catalog rank of a name, if catalogued.
func (o *Ordering) OrderFor(name string) (int, bool) {
	rank, ok := o.orderMap[strings.ToLower(strings.TrimSpace(name))]
	return rank, ok
}

// Key builds the identity key for a nutrient record. Energy rows stay
// distinct per unit, water rows merge per unit, and otherwise the source
// id, then number, then name identifies the record. An empty key means
// the record is unmergeable.
func (o *Ordering) Key(info Info) string {
	name := strings.ToLower(strings.TrimSpace(info.Name))
	unit := strings.ToLower(strings.TrimSpace(info.Unit))
	if name == "energy" && unit != "" {
		return "energy:" + unit
	}
	if name == "water" {
		return "water|" + unit
	}
	if info.ID != nil {
		return fmt.Sprintf("id:%d", *info.ID)
	}
	if info.Number != "" {
		return "num:" + info.Number
	}
	if name == "" {
		return ""
	}
	return "name:" + name
}

// UpdateReference ingests a source record list as ordering hints. Rows
// without an amount act as category headers for the rows that follow.
func (o *Ordering) UpdateReference(records []Record) {
	currentCategory := ""
	for _, record := range records {
		key := o.Key(record.Nutrient)
		if key == "" {
			continue
		}
		if record.Amount == nil {
			if name := strings.TrimSpace(record.Nutrient.Name); name != "" {
				currentCategory = name
			}
			if _, exists := o.reference[key]; !exists {
				o.reference[key] = referenceInfo{
					rank:     record.Nutrient.Rank,
					category: currentCategory,
					unit:     record.Nutrient.Unit,
				}
			}
			continue
		}
		o.reference[key] = referenceInfo{
			rank:     record.Nutrient.Rank,
			category: currentCategory,
			unit:     record.Nutrient.Unit,
		}
	}
}

// Order resolves a record's display order: source rank first, then
// recorded reference rank, then catalog rank, then the fallback.
func (o *Ordering) Order(info Info, fallback int) float64 {
	if info.Rank != nil {
		return float64(*info.Rank)
	}
	if ref, ok := o.reference[o.Key(info)]; ok && ref.rank != nil {
		return float64(*ref.rank)
	}
	if rank, ok := o.OrderFor(info.Name); ok {
		return float64(rank)
	}
	return float64(fallback)
}

// Sort returns the records in stable display order.
func (o *Ordering) Sort(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	type indexed struct {
		order float64
		idx   int
	}
	keys := make([]indexed, len(records))
	for i, record := range records {
		keys[i] = indexed{order: o.Order(record.Nutrient, i+10000), idx: i}
	}
	sort.SliceStable(keys, func(a, b int) bool {
		if keys[a].order != keys[b].order {
			return keys[a].order < keys[b].order
		}
		return keys[a].idx < keys[b].idx
	})
	sorted := make([]Record, len(records))
	for i, k := range keys {
		sorted[i] = records[k.idx]
	}
	return sorted
}

// HeaderKey builds the name|unit key that deduplicates display columns
// across sources, along with the canonical name and unit it resolved.
func (o *Ordering) HeaderKey(info Info) (key, name, unit string) {
	name = AliasName(info.Name)
	rawUnit := info.Unit
	if rawUnit == "" {
		rawUnit = o.InferUnit(info)
	}
	unit = units.CanonicalUnit(rawUnit)

	namePart := strings.ToLower(strings.TrimSpace(name))
	unitPart := strings.ToLower(strings.TrimSpace(unit))
	if namePart != "" {
		return namePart + "|" + unitPart, name, unit
	}
	base := o.Key(info)
	if base == "" {
		return "", name, unit
	}
	return base + "|" + unitPart, name, unit
}

// Total is one aggregated nutrient value keyed for export.
type Total struct {
	Name   string
	Unit   string
	Amount decimal.Decimal
}

// aliasPriority breaks ties between duplicate columns produced by known
// aliases. Preserved verbatim from the observed source behavior; any
// extension is a product decision.
var aliasPriority = map[string]int{
	"carbohydrate, by difference": 2,
	"carbohydrate, by summation":  1,
	"carbohydrate by summation":   1,
	"sugars, total":               2,
	"total sugars":                1,
}

// NormalizeTotalsByHeaderKey re-keys totals by header key so aliases
// collapse to one column, preferring higher alias priority and otherwise
// the last entry seen.
func (o *Ordering) NormalizeTotalsByHeaderKey(totals []Total) map[string]Total {
	normalized := make(map[string]Total, len(totals))
	bestPriority := make(map[string]int, len(totals))

	for _, entry := range totals {
		info := Info{Name: entry.Name, Unit: entry.Unit}
		key, canonicalName, canonicalUnit := o.HeaderKey(info)
		if key == "" {
			continue
		}
		priority := aliasPriority[strings.ToLower(strings.TrimSpace(entry.Name))]
		if best, seen := bestPriority[key]; seen && priority < best {
			continue
		}
		bestPriority[key] = priority

		name := canonicalName
		if name == "" {
			name = entry.Name
		}
		unit := canonicalUnit
		if unit == "" {
			unit = entry.Unit
		}
		normalized[key] = Total{Name: name, Unit: unit, Amount: entry.Amount}
	}
	return normalized
}

var aminoAcidNames = map[string]struct{}{
	"tryptophan":     {},
	"threonine":      {},
	"isoleucine":     {},
	"leucine":        {},
	"lysine":         {},
	"methionine":     {},
	"phenylalanine":  {},
	"tyrosine":       {},
	"valine":         {},
	"arginine":       {},
	"histidine":      {},
	"alanine":        {},
	"aspartic acid":  {},
	"glutamic acid":  {},
	"glycine":        {},
	"proline":        {},
	"serine":         {},
	"hydroxyproline": {},
	"cysteine":       {},
	"cystine":        {},
}

var organicAcidNames = map[string]struct{}{
	"citric acid": {},
	"malic acid":  {},
	"oxalic acid": {},
	"quinic acid": {},
}

var oligosaccharideNames = map[string]struct{}{
	"raffinose":  {},
	"stachyose":  {},
	"verbascose": {},
}

var isoflavoneNames = map[string]struct{}{
	"daidzein":  {},
	"genistein": {},
	"daidzin":   {},
	"genistin":  {},
	"glycitin":  {},
}

var vitaminLikeFragments = []string{
	"tocopherol",
	"tocotrienol",
	"carotene",
	"lycopene",
	"lutein",
	"zeaxanthin",
	"retinol",
	"folate",
	"folic acid",
	"betaine",
	"choline",
	"caffeine",
	"theobromine",
}

// CategoryFor infers the category for a nutrient name. Names absent from
// the catalog fall through a fixed rule chain, then any recorded
// reference hint, then the generic bucket.
func (o *Ordering) CategoryFor(name string, info *Info) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if category, ok := o.categoryMap[lower]; ok {
		return category
	}

	if strings.HasPrefix(lower, "vitamin ") {
		return CategoryVitamins
	}
	for _, fragment := range vitaminLikeFragments {
		if strings.Contains(lower, fragment) {
			return CategoryVitamins
		}
	}

	if _, ok := aminoAcidNames[lower]; ok {
		return CategoryAminoAcids
	}
	if strings.Contains(lower, "fatty acids") ||
		strings.HasPrefix(lower, "sfa ") ||
		strings.HasPrefix(lower, "mufa ") ||
		strings.HasPrefix(lower, "pufa ") ||
		lower == "cholesterol" || lower == "total lipid (fat)" || lower == "total fat (nlea)" {
		return CategoryLipids
	}
	if strings.Contains(lower, "sterol") {
		return CategoryPhytosterols
	}
	if _, ok := organicAcidNames[lower]; ok {
		return CategoryOrganicAcids
	}
	if strings.HasSuffix(lower, "acid") {
		if _, amino := aminoAcidNames[lower]; !amino {
			return CategoryOrganicAcids
		}
	}
	if _, ok := oligosaccharideNames[lower]; ok {
		return CategoryOligosaccharides
	}
	if _, ok := isoflavoneNames[lower]; ok {
		return CategoryIsoflavones
	}

	if info != nil {
		if ref, ok := o.reference[o.Key(*info)]; ok && ref.category != "" {
			return ref.category
		}
	}
	return CategoryOther
}

var defaultUnitsByNumber = map[string]string{
	"255": "g",    // Water
	"203": "g",    // Protein
	"204": "g",    // Total lipid (fat)
	"298": "g",    // Total fat (NLEA)
	"202": "g",    // Nitrogen
	"207": "g",    // Ash
	"205": "g",    // Carbohydrate, by difference
	"291": "g",    // Fiber, total dietary
	"269": "g",    // Sugars, total
	"268": "kJ",   // Energy (kJ)
	"208": "kcal", // Energy (kcal)
	"951": "g",    // Proximates
	"956": "g",    // Carbohydrates
}

var macroUnitHints = []string{
	"water",
	"protein",
	"lipid",
	"fat",
	"ash",
	"carbohydrate",
	"fiber",
	"sugar",
	"starch",
	"nitrogen",
	"fatty acids",
	"sfa",
	"mufa",
	"pufa",
}

var simpleSugarNames = map[string]struct{}{
	"sucrose":   {},
	"glucose":   {},
	"fructose":  {},
	"lactose":   {},
	"maltose":   {},
	"galactose": {},
}

// InferUnit guesses the unit for a record whose source omitted it: the
// per-number default table first, then name-based heuristics. Returns ""
// when the unit stays unknown.
func (o *Ordering) InferUnit(info Info) string {
	if info.Unit != "" {
		return info.Unit
	}

	number := strings.TrimSpace(info.Number)
	if unit, ok := defaultUnitsByNumber[number]; ok {
		return unit
	}

	name := strings.ToLower(strings.TrimSpace(info.Name))
	if strings.Contains(name, "energy") {
		if strings.Contains(name, "kcal") {
			return "kcal"
		}
		if strings.Contains(name, "kj") {
			return "kJ"
		}
	}

	for _, hint := range macroUnitHints {
		if strings.Contains(name, hint) {
			return "g"
		}
	}
	if strings.Contains(name, ":") {
		return "g"
	}
	if _, ok := aminoAcidNames[name]; ok {
		return "g"
	}
	if _, ok := simpleSugarNames[name]; ok {
		return "g"
	}
	if name == "alcohol, ethyl" {
		return "g"
	}
	return ""
}

// UnitForName returns the source-style unit for a nutrient name, using
// the static unit table then inference.
func (o *Ordering) UnitForName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	if unit, ok := o.unitMap[lower]; ok {
		return unit
	}
	inferred := o.InferUnit(Info{Name: name})
	if canonical := units.CanonicalUnit(inferred); canonical != "" {
		return canonical
	}
	return inferred
}
