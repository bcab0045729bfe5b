package nutrient

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(name, unit, amount string) Record {
	r := Record{Nutrient: Info{Name: name, Unit: unit}}
	if amount != "" {
		d := decimal.RequireFromString(amount)
		r.Amount = &d
	}
	return r
}

func findRecord(t *testing.T, records []Record, name, unit string) Record {
	t.Helper()
	for _, r := range records {
		if r.Nutrient.Name == name && (unit == "" || r.Nutrient.Unit == unit) {
			return r
		}
	}
	t.Fatalf("record %q (%s) not found in %v", name, unit, recordNames(records))
	return Record{}
}

func recordNames(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Nutrient.Name + "/" + r.Nutrient.Unit
	}
	return names
}

func countRecords(records []Record, name string) int {
	n := 0
	for _, r := range records {
		if r.Nutrient.Name == name {
			n++
		}
	}
	return n
}

func TestNormalizeDerivesNitrogen(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{rec("Protein", "g", "12.5")}, "Foundation")
	nitrogen := findRecord(t, out, "Nitrogen", "g")
	if nitrogen.Amount == nil || !nitrogen.Amount.Equal(dec("2")) {
		t.Errorf("nitrogen = %v, want 2", nitrogen.Amount)
	}
}

func TestNormalizeKeepsMeasuredNitrogen(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{
		rec("Protein", "g", "12.5"),
		rec("Nitrogen", "g", "2.11"),
	}, "Foundation")
	nitrogen := findRecord(t, out, "Nitrogen", "g")
	if !nitrogen.Amount.Equal(dec("2.11")) {
		t.Errorf("nitrogen = %s, want measured 2.11", nitrogen.Amount)
	}
	if countRecords(out, "Nitrogen") != 1 {
		t.Errorf("nitrogen rows = %d, want 1", countRecords(out, "Nitrogen"))
	}
}

func TestNormalizeComputesEnergyFromMacros(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{
		rec("Protein", "g", "10"),
		rec("Carbohydrate, by difference", "g", "20"),
		rec("Total lipid (fat)", "g", "5"),
	}, "Foundation")

	kcal := findRecord(t, out, "Energy", "kcal")
	if !kcal.Amount.Equal(dec("165")) {
		t.Errorf("kcal = %s, want 165", kcal.Amount)
	}
	kj := findRecord(t, out, "Energy", "kJ")
	if !kj.Amount.Equal(dec("690.36")) {
		t.Errorf("kJ = %s, want 690.36", kj.Amount)
	}
}

func TestNormalizeOverridesReportedEnergy(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{
		rec("Energy", "kcal", "999"),
		rec("Energy", "kcal", "42"),
		rec("Energy", "kJ", "1"),
		rec("Protein", "g", "10"),
		rec("Carbohydrate, by difference", "g", "20"),
		rec("Total lipid (fat)", "g", "5"),
	}, "Foundation")

	if countRecords(out, "Energy") != 2 {
		t.Fatalf("energy rows = %d, want 2 (%v)", countRecords(out, "Energy"), recordNames(out))
	}
	kcal := findRecord(t, out, "Energy", "kcal")
	if !kcal.Amount.Equal(dec("165")) {
		t.Errorf("kcal = %s, want recomputed 165", kcal.Amount)
	}
	if kcal.Nutrient.ID != nil || kcal.Nutrient.Number != "" {
		t.Error("recomputed energy should not keep source identity")
	}
}

func TestNormalizeDropsAtwaterEnergyVariants(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{
		rec("Energy (Atwater General Factors)", "kcal", "100"),
		rec("Protein", "g", "10"),
	}, "Foundation")
	for _, r := range out {
		if r.Nutrient.Name == "Energy (Atwater General Factors)" {
			t.Fatal("Atwater energy variant not dropped")
		}
	}
}

func TestNormalizeMirrorsFatPair(t *testing.T) {
	t.Parallel()

	t.Run("lipid only", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{rec("Total lipid (fat)", "g", "3.5")}, "Foundation")
		nlea := findRecord(t, out, "Total fat (NLEA)", "g")
		if !nlea.Amount.Equal(dec("3.5")) {
			t.Errorf("mirrored NLEA = %s, want 3.5", nlea.Amount)
		}
	})

	t.Run("nlea only", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{rec("Total fat (NLEA)", "g", "7")}, "Foundation")
		lipid := findRecord(t, out, "Total lipid (fat)", "g")
		if !lipid.Amount.Equal(dec("7")) {
			t.Errorf("mirrored lipid = %s, want 7", lipid.Amount)
		}
	})

	t.Run("both keep their own values", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{
			rec("Total lipid (fat)", "g", "3.5"),
			rec("Total fat (NLEA)", "g", "3.6"),
		}, "Foundation")
		lipid := findRecord(t, out, "Total lipid (fat)", "g")
		nlea := findRecord(t, out, "Total fat (NLEA)", "g")
		if !lipid.Amount.Equal(dec("3.5")) || !nlea.Amount.Equal(dec("3.6")) {
			t.Errorf("fat pair = %s/%s, want 3.5/3.6", lipid.Amount, nlea.Amount)
		}
	})
}

func TestNormalizeMergesAliases(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{
		rec("Total Sugars", "g", ""),
		rec("Sugars, Total", "g", "4.9"),
	}, "Foundation")
	if countRecords(out, "Sugars, Total") != 1 {
		t.Fatalf("sugar rows = %d, want 1", countRecords(out, "Sugars, Total"))
	}
	sugars := findRecord(t, out, "Sugars, Total", "g")
	if sugars.Amount == nil || !sugars.Amount.Equal(dec("4.9")) {
		t.Errorf("sugars = %v, want first non-nil amount 4.9", sugars.Amount)
	}
}

func TestNormalizeCanonicalizesUnits(t *testing.T) {
	t.Parallel()

	out := Normalize([]Record{rec("Vitamin B-12", "UG", "1.2")}, "Foundation")
	b12 := findRecord(t, out, "Vitamin B-12", "")
	if b12.Nutrient.Unit != "μg" {
		t.Errorf("unit = %q, want μg", b12.Nutrient.Unit)
	}
}

func TestNormalizeBrandedWater(t *testing.T) {
	t.Parallel()

	t.Run("estimates missing water", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{
			rec("Protein", "g", "10"),
			rec("Carbohydrate, by difference", "g", "30"),
			rec("Total lipid (fat)", "g", "20"),
		}, "Branded")
		water := findRecord(t, out, "Water", "g")
		if !water.Amount.Equal(dec("40")) {
			t.Errorf("water = %s, want 40", water.Amount)
		}
	})

	t.Run("clamps at zero", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{
			rec("Protein", "g", "50"),
			rec("Carbohydrate, by difference", "g", "40"),
			rec("Total lipid (fat)", "g", "30"),
		}, "Branded")
		water := findRecord(t, out, "Water", "g")
		if !water.Amount.IsZero() {
			t.Errorf("water = %s, want 0", water.Amount)
		}
	})

	t.Run("keeps measured water", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{
			rec("Water", "g", "55"),
			rec("Protein", "g", "10"),
		}, "Branded")
		if countRecords(out, "Water") != 1 {
			t.Fatalf("water rows = %d, want 1", countRecords(out, "Water"))
		}
		water := findRecord(t, out, "Water", "g")
		if !water.Amount.Equal(dec("55")) {
			t.Errorf("water = %s, want measured 55", water.Amount)
		}
	})

	t.Run("not applied to other datasets", func(t *testing.T) {
		t.Parallel()
		out := Normalize([]Record{rec("Protein", "g", "10")}, "Foundation")
		for _, r := range out {
			if r.Nutrient.Name == "Water" {
				t.Fatal("water estimated for non-branded food")
			}
		}
	})
}

func TestNormalizeIsStableOnSecondRun(t *testing.T) {
	t.Parallel()

	input := []Record{
		rec("Energy", "kcal", "999"),
		rec("Protein", "g", "10"),
		rec("Carbohydrate, by difference", "g", "20"),
		rec("Total lipid (fat)", "g", "5"),
		rec("Total Sugars", "g", "4.9"),
	}
	once := Normalize(input, "Branded")
	twice := Normalize(once, "Branded")

	if len(once) != len(twice) {
		t.Fatalf("lengths differ: %d vs %d (%v vs %v)",
			len(once), len(twice), recordNames(once), recordNames(twice))
	}
	for i := range once {
		if once[i].Nutrient.Name != twice[i].Nutrient.Name ||
			once[i].Nutrient.Unit != twice[i].Nutrient.Unit {
			t.Errorf("row %d: %s/%s vs %s/%s", i,
				once[i].Nutrient.Name, once[i].Nutrient.Unit,
				twice[i].Nutrient.Name, twice[i].Nutrient.Unit)
		}
		if (once[i].Amount == nil) != (twice[i].Amount == nil) {
			t.Errorf("row %d amount presence differs", i)
			continue
		}
		if once[i].Amount != nil && !once[i].Amount.Equal(*twice[i].Amount) {
			t.Errorf("row %d amount %s vs %s", i, once[i].Amount, twice[i].Amount)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []Record{rec("Protein", "g", "12.5")}
	Normalize(input, "Foundation")
	if len(input) != 1 || input[0].Nutrient.Name != "Protein" {
		t.Errorf("input mutated: %v", recordNames(input))
	}
}

func TestAliasName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Total Sugars", "Sugars, Total"},
		{"Carbohydrate, by summation", "Carbohydrate, by difference"},
		{"Energy (Atwater General Factors)", ""},
		{"Protein", "Protein"},
	}
	for _, tt := range tests {
		if got := AliasName(tt.in); got != tt.want {
			t.Errorf("AliasName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
