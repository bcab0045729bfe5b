package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"formulator/internal/costing"
	"formulator/internal/store"
	"formulator/internal/units"
)

var (
	costPackAmount string
	costPackUnit   string
	costValue      string
	costCurrency   string
)

var costsCmd = &cobra.Command{
	Use:   "costs <name>",
	Short: "Show batch costs in base currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}

			ingredients, missingIngredients := costing.TotalIngredientsCostBatch(f)
			processes, missingProcesses := costing.TotalProcessCostBatch(f)

			fmt.Printf("Batch of %s g\n", f.TotalWeight())
			fmt.Printf("Ingredients: %s", ingredients.StringFixed(2))
			if missingIngredients > 0 {
				fmt.Printf(" (%d without cost data)", missingIngredients)
			}
			fmt.Println()
			fmt.Printf("Processes:   %s", processes.StringFixed(2))
			if missingProcesses > 0 {
				fmt.Printf(" (%d incomplete)", missingProcesses)
			}
			fmt.Println()
			fmt.Printf("Total:       %s\n", ingredients.Add(processes).StringFixed(2))

			ic := costing.IngredientCompleteness(f)
			pc := costing.ProcessCompleteness(f)
			fmt.Printf("Cost coverage: ingredients %s%%, processes %s%%\n",
				ic.Percent.StringFixed(0), pc.Percent.StringFixed(0))
			return nil
		})
	},
}

var unitCostsCmd = &cobra.Command{
	Use:   "unit-costs <name> <target-mass> [unit]",
	Short: "Split the batch cost over sellable units of the target mass",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := units.ParseDecimal(args[1])
		if !ok {
			return fmt.Errorf("invalid target mass %q", args[1])
		}
		unit := "g"
		if len(args) == 3 {
			unit = args[2]
		}

		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}

			uc := costing.UnitCostsForTargetMass(f, target, unit)
			fmt.Printf("Batch mass:    %s g\n", uc.BatchMassG)
			fmt.Printf("Sellable mass: %s g (yield %s%%)\n", uc.SellableMassG, f.YieldPercent)
			fmt.Printf("Unit mass:     %s g\n", uc.TargetMassG)
			fmt.Printf("Units:         %s\n", uc.UnitsCount.StringFixed(2))
			fmt.Printf("Ingredients per unit: %s\n", uc.IngredientsPerUnit.StringFixed(2))
			fmt.Printf("Processes per unit:   %s\n", uc.ProcessPerUnit.StringFixed(2))
			fmt.Printf("Packaging per pack:   %s\n", uc.PackagingPerPack.StringFixed(2))
			fmt.Printf("Total per pack:       %s\n", uc.TotalPackCost.StringFixed(2))
			return nil
		})
	},
}

var costSetCmd = &cobra.Command{
	Use:   "cost <name> <index>",
	Short: "Set an ingredient's purchase data",
	Long: "Records how the ingredient is bought: a pack of --pack-amount --pack-unit\n" +
		"for --value in --currency. The per-gram cost in base currency is derived\n" +
		"from these fields whenever costs are computed.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		packAmount, ok := units.ParseDecimal(costPackAmount)
		if !ok {
			return fmt.Errorf("invalid pack amount %q", costPackAmount)
		}
		value, ok := units.ParseDecimal(costValue)
		if !ok {
			return fmt.Errorf("invalid cost value %q", costValue)
		}

		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			ing, err := f.Ingredient(index)
			if err != nil {
				return err
			}
			ing.CostPackAmount = &packAmount
			ing.CostPackUnit = costPackUnit
			ing.CostValue = &value
			ing.CostCurrencySymbol = costCurrency
			costing.UpdateIngredientCost(ing, f.CurrencyRates)
			if ing.CostPerGram == nil {
				fmt.Println("warning: cost data incomplete, no per-gram cost derived")
			}
			return s.Save(f)
		})
	},
}

func init() {
	costSetCmd.Flags().StringVar(&costPackAmount, "pack-amount", "", "Pack size in --pack-unit")
	costSetCmd.Flags().StringVar(&costPackUnit, "pack-unit", "kg", "Pack mass unit (g, kg, ton, lb, oz)")
	costSetCmd.Flags().StringVar(&costValue, "value", "", "Pack price in --currency")
	costSetCmd.Flags().StringVar(&costCurrency, "currency", "$", "Currency symbol of the pack price")
	costSetCmd.MarkFlagRequired("pack-amount")
	costSetCmd.MarkFlagRequired("value")

	rootCmd.AddCommand(costsCmd)
	rootCmd.AddCommand(unitCostsCmd)
	rootCmd.AddCommand(costSetCmd)
}
