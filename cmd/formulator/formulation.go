package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"formulator/internal/formulation"
	"formulator/internal/log"
	"formulator/internal/nutrient"
	"formulator/internal/store"
	"formulator/internal/units"
	"formulator/models"
)

var (
	addLock      bool
	addManual    string
	setKeepTotal bool
	setPercent   bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty formulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			f, err := models.NewFormulation(args[0])
			if err != nil {
				return err
			}
			if err := s.Save(f); err != nil {
				return err
			}
			log.Info(cmd.Context(), "formulation created", "name", f.Name)
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <formulation> <fdc-id> <grams>",
	Short: "Add an ingredient by FDC ID, or manually with --manual",
	Long: "Fetches the food from FoodData Central and appends it with the given\n" +
		"amount in grams. With --manual the FDC ID is skipped and a nutrient-less\n" +
		"manual ingredient with the given description is added instead.",
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		var food *models.Food
		var rawAmount string
		if addManual != "" {
			if len(args) != 2 {
				return fmt.Errorf("usage with --manual: add <formulation> <grams>")
			}
			manual, err := models.NewFood(0, addManual, models.DataTypeManual, "", nil)
			if err != nil {
				return err
			}
			food = manual
			rawAmount = args[1]
		} else {
			if len(args) != 3 {
				return fmt.Errorf("usage: add <formulation> <fdc-id> <grams>")
			}
			fdcID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid FDC ID %q: %w", args[1], err)
			}
			fetched, err := newFDCClient().Food(cmd.Context(), fdcID)
			if err != nil {
				return err
			}
			food = fetched
			rawAmount = args[2]
		}

		amount, ok := units.ParseDecimal(rawAmount)
		if !ok {
			return fmt.Errorf("invalid amount %q", rawAmount)
		}

		return withStore(func(s *store.Store) error {
			f, err := loadOrCreate(s, name)
			if err != nil {
				return err
			}
			ing, err := models.NewIngredient(food, amount)
			if err != nil {
				return err
			}
			ing.Locked = addLock
			f.AddIngredient(ing)
			if err := s.Save(f); err != nil {
				return err
			}
			log.Info(cmd.Context(), "ingredient added",
				"formulation", f.Name, "ingredient", food.Description, "amount_g", amount.String())
			return nil
		})
	},
}

func loadOrCreate(s *store.Store, name string) (*models.Formulation, error) {
	f, err := s.Load(name)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewFormulation(name)
	}
	return f, err
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored formulations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			names, err := s.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show ingredients and per-100g nutrient totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}

			total := f.TotalWeight()
			fmt.Printf("%s (total %s g, yield %s%%)\n\n", f.Name, total, f.YieldPercent)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tINGREDIENT\tGRAMS\tPERCENT\tLOCKED")
			for i, ing := range f.Ingredients {
				locked := ""
				if ing.Locked {
					locked = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					i, ing.Description(), ing.AmountG, ing.Percentage(total).StringFixed(2), locked)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			totals := nutrient.TotalsPer100g(f)
			if len(totals) == 0 {
				return nil
			}

			ordering := nutrient.NewOrdering()
			names := make([]string, 0, len(totals))
			for name := range totals {
				names = append(names, name)
			}
			sort.SliceStable(names, func(i, j int) bool {
				return ordering.Order(nutrient.Info{Name: names[i]}, 1<<20) <
					ordering.Order(nutrient.Info{Name: names[j]}, 1<<20)
			})

			fmt.Println("\nPer 100 g:")
			nw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(nw, "NUTRIENT\tAMOUNT\tUNIT")
			for _, name := range names {
				fmt.Fprintf(nw, "%s\t%s\t%s\n", name, totals[name].StringFixed(2), ordering.UnitForName(name))
			}
			return nw.Flush()
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name> <index>",
	Short: "Remove an ingredient by index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if err := f.RemoveIngredient(index); err != nil {
				return err
			}
			return s.Save(f)
		})
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <name> <target-grams>",
	Short: "Scale unlocked ingredients so the total weight hits the target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := units.ParseDecimal(args[1])
		if !ok {
			return fmt.Errorf("invalid target weight %q", args[1])
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if err := formulation.AdjustToTargetWeight(f, target); err != nil {
				return err
			}
			if err := s.Save(f); err != nil {
				return err
			}
			log.Info(cmd.Context(), "formulation adjusted", "name", f.Name, "total_g", f.TotalWeight().String())
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <name> <index> <amount>",
	Short: "Set one ingredient's grams, or its percentage with --as-percent",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		amount, ok := units.ParseDecimal(args[2])
		if !ok {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if setPercent {
				err = formulation.ApplyPercentEdit(f, index, amount)
			} else {
				err = formulation.SetIngredientAmount(f, index, amount, setKeepTotal)
			}
			if err != nil {
				return err
			}
			return s.Save(f)
		})
	},
}

var scaleCmd = &cobra.Command{
	Use:   "scale <name> <target-grams>",
	Short: "Scale every ingredient proportionally, locks included",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := units.ParseDecimal(args[1])
		if !ok {
			return fmt.Errorf("invalid target weight %q", args[1])
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			formulation.ScaleToTargetWeight(f, target)
			return s.Save(f)
		})
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock <name> <index>",
	Short: "Lock an ingredient at its current amount",
	Args:  cobra.ExactArgs(2),
	RunE:  runLock(true),
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <name> <index>",
	Short: "Unlock an ingredient",
	Args:  cobra.ExactArgs(2),
	RunE:  runLock(false),
}

func runLock(lock bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if lock {
				err = formulation.Lock(f, index)
			} else {
				err = formulation.Unlock(f, index)
			}
			if err != nil {
				return err
			}
			return s.Save(f)
		})
	}
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored formulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			return s.Delete(args[0])
		})
	},
}

var yieldCmd = &cobra.Command{
	Use:   "yield <name> <percent>",
	Short: "Set the sellable yield percentage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, ok := units.ParseDecimal(args[1])
		if !ok {
			return fmt.Errorf("invalid percent %q", args[1])
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			f.SetYieldPercent(percent)
			return s.Save(f)
		})
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <name> <symbol> <rate-to-base> [currency-name]",
	Short: "Set a currency exchange rate",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, ok := units.ParseDecimal(args[2])
		if !ok {
			return fmt.Errorf("invalid rate %q", args[2])
		}
		currencyName := args[1]
		if len(args) == 4 {
			currencyName = args[3]
		}
		return withStore(func(s *store.Store) error {
			f, err := s.Load(args[0])
			if err != nil {
				return err
			}
			rates := append([]models.CurrencyRate{}, f.CurrencyRates...)
			updated := false
			for i := range rates {
				if rates[i].Symbol == args[1] {
					rates[i].RateToBase = rate
					rates[i].Name = currencyName
					updated = true
				}
			}
			if !updated {
				rates = append(rates, models.CurrencyRate{Name: currencyName, Symbol: args[1], RateToBase: rate})
			}
			f.SetCurrencyRates(rates)
			return s.Save(f)
		})
	},
}

func init() {
	addCmd.Flags().BoolVar(&addLock, "lock", false, "Lock the new ingredient at its amount")
	addCmd.Flags().StringVar(&addManual, "manual", "", "Add a manual ingredient with this description instead of an FDC ID")
	setCmd.Flags().BoolVar(&setKeepTotal, "keep-total", false, "Redistribute the delta over unlocked ingredients")
	setCmd.Flags().BoolVar(&setPercent, "as-percent", false, "Interpret the amount as a percentage of the total")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(yieldCmd)
	rootCmd.AddCommand(rateCmd)
}
