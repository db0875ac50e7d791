package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Victor-armando18/pricing-assistant/pkg/engine"
)

func main() {
	rulesDir := flag.String("rules", "data/rules", "directory holding <version>_rules catalogs")
	version := flag.String("version", "v1", "default catalog version")
	cartPath := flag.String("cart", "data/carts/sample_cart.json", "calculation request JSON file")
	asJSON := flag.Bool("json", false, "print the raw result as JSON")
	flag.Parse()

	if err := run(os.Stdout, *rulesDir, *version, *cartPath, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, rulesDir, version, cartPath string, asJSON bool) error {
	raw, err := os.ReadFile(cartPath)
	if err != nil {
		return fmt.Errorf("read cart: %w", err)
	}
	var req engine.CalculationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse cart: %w", err)
	}

	svc := engine.NewEngineService(engine.NewFileLoader(rulesDir), version, zerolog.Nop())
	res, err := svc.Calculate(context.Background(), req)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printSummary(w, res)
	return nil
}

func printSummary(w io.Writer, res engine.CalculationResult) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "   PRICING ASSISTANT - DIAGNOSTIC TOOL")
	fmt.Fprintln(w, rule)

	if !res.Success {
		fmt.Fprintf(w, "\n[FAILED] %s\n", res.Error)
		printWarnings(w, res.Warnings)
		return
	}
	data := res.Data

	fmt.Fprintln(w, "\n[1. PROMOTIONS]")
	for _, p := range data.Promotions {
		if p.PromotionDiscount == 0 {
			continue
		}
		fmt.Fprintf(w, "   %-20s %-16s free %d  -%d\n", p.ProductName, p.RuleID, p.FreeUnits, p.PromotionDiscount)
	}

	fmt.Fprintln(w, "\n[2. DISCOUNT STEPS]")
	for i, s := range data.DiscountSteps {
		fmt.Fprintf(w, "   %d. [%-16s] %-14s -%-8d -> %d\n", i+1, s.DiscountID, s.Category, s.Amount, s.AfterAmount)
		fmt.Fprintf(w, "      %s\n", s.CalculationDetails)
	}

	printWarnings(w, res.Warnings)

	fmt.Fprintln(w, "\n[4. TOTALS]")
	fmt.Fprintf(w, "   Original:   %d\n", data.TotalOriginalPrice)
	fmt.Fprintf(w, "   Promotions: %d\n", data.TotalPromotionDiscount)
	fmt.Fprintf(w, "   Discount:   %d (%.2f%%)\n", data.TotalDiscount, data.TotalDiscountRate*100)
	fmt.Fprintf(w, "   Final:      %d\n", data.TotalFinalPrice)
	fmt.Fprintln(w, rule)
}

func printWarnings(w io.Writer, warnings []string) {
	fmt.Fprintln(w, "\n[3. WARNINGS]")
	if len(warnings) == 0 {
		fmt.Fprintln(w, "   none")
		return
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "   - %s\n", warn)
	}
}
