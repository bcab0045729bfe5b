package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"formulator/internal/log"
	"formulator/internal/nutrient"
)

var (
	lookupDataTypes []string
	lookupLimit     int
	lookupJSON      bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query FoodData Central",
}

var lookupSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search foods by free text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newFDCClient()
		results, err := client.Search(cmd.Context(), args[0], lookupDataTypes, lookupLimit)
		if err != nil {
			return err
		}
		log.Debug(cmd.Context(), "search complete", "query", args[0], "results", len(results))

		if lookupJSON {
			return json.NewEncoder(os.Stdout).Encode(results)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FDC ID\tTYPE\tDESCRIPTION\tBRAND")
		for _, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.FDCID, r.DataType, r.Description, r.BrandOwner)
		}
		return w.Flush()
	},
}

var lookupFoodCmd = &cobra.Command{
	Use:   "food <fdc-id>",
	Short: "Show a food's normalized per-100g nutrients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fdcID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid FDC ID %q: %w", args[0], err)
		}

		client := newFDCClient()
		food, err := client.Food(cmd.Context(), fdcID)
		if err != nil {
			return err
		}

		if lookupJSON {
			return json.NewEncoder(os.Stdout).Encode(food)
		}

		fmt.Printf("%s (%s, FDC %d)\n", food.Description, food.DataType, food.FDCID)
		if food.BrandOwner != "" {
			fmt.Printf("Brand: %s\n", food.BrandOwner)
		}

		ordering := nutrient.NewOrdering()
		records := make([]nutrient.Record, 0, len(food.Nutrients))
		for _, n := range food.Nutrients {
			amount := n.Amount
			records = append(records, nutrient.Record{
				Nutrient: nutrient.Info{Name: n.Name, Unit: n.Unit, ID: n.ID, Number: n.Number},
				Amount:   &amount,
			})
		}
		records = ordering.Sort(records)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NUTRIENT\tAMOUNT\tUNIT\tCATEGORY")
		for _, rec := range records {
			if rec.Amount == nil {
				continue
			}
			category := ordering.CategoryFor(rec.Nutrient.Name, &rec.Nutrient)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Nutrient.Name, rec.Amount, rec.Nutrient.Unit, category)
		}
		return w.Flush()
	},
}

func init() {
	lookupSearchCmd.Flags().StringSliceVar(&lookupDataTypes, "type", nil, "Restrict to dataset types (Foundation, Branded, ...)")
	lookupSearchCmd.Flags().IntVar(&lookupLimit, "limit", 25, "Maximum number of results")
	lookupCmd.PersistentFlags().BoolVar(&lookupJSON, "json", false, "Emit JSON instead of a table")

	lookupCmd.AddCommand(lookupSearchCmd)
	lookupCmd.AddCommand(lookupFoodCmd)
	rootCmd.AddCommand(lookupCmd)
}
