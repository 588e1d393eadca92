// applies category/label=value surcharge edits to VARIANT_PRICE_FILE
package main

import (
	"context"
	"fmt"
	"os"

	"shopify-pricer/internal/adapters/storage/localfs"
	"shopify-pricer/internal/app/bootstrap"
	"shopify-pricer/internal/app/usecases"
	"shopify-pricer/internal/domain/pricing"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: edit-price-rules category/label=value ...")
		os.Exit(2)
	}

	rt, err := bootstrap.NewLocal()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	edits := make([]pricing.SurchargeEdit, 0, len(os.Args)-1)
	rejected := 0
	for _, arg := range os.Args[1:] {
		edit, err := pricing.ParseSurchargeEdit(arg)
		if err != nil {
			rt.Logger.LogWarning("Rule edit rejected: " + err.Error())
			rejected++
			continue
		}
		edits = append(edits, edit)
	}

	editor := usecases.NewEditPriceRules(localfs.NewRuleTableStore(rt.Config.Files.VariantPrices), rt.Runs, rt.Logger)
	report, err := editor.Run(context.Background(), edits)
	if err != nil {
		rt.Logger.LogError("editPriceRules error", err)
		rt.Close()
		os.Exit(1)
	}
	if report.Failed+rejected > 0 {
		rt.Close()
		os.Exit(3)
	}
}
