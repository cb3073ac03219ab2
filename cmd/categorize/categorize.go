// Package categorize provides a command to test the category rule engine
// against a single merchant string.
package categorize

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bankmerge/cmd/root"
	"bankmerge/internal/categorizer"
)

var (
	business string
	amount   string
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Show the category the rule engine assigns to a merchant",
	Long: `Categorize runs the keyword rule table against a merchant string and an
amount, exactly as the merge pipeline would, and prints the result.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&business, "business", "b", "", "Merchant/payee text")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "0", "Signed amount (negative for income)")
	_ = Cmd.MarkFlagRequired("business")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	log := root.Log

	value, err := decimal.NewFromString(amount)
	if err != nil {
		log.Fatalf("Invalid amount %q: %v", amount, err)
	}

	store := categorizer.NewRuleStore(root.Cfg.Rules.File, log)
	ruleSets, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load category rules: %v", err)
	}
	rules := categorizer.NewRules(ruleSets, log)

	category := rules.Categorize(value, business)
	fmt.Printf("%s: %s (%s)\n", business, category, category.Label())
}
