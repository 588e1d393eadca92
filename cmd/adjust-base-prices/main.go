// rewrites base prices from the first variant price, ADJUST_PERCENTAGE and nice rounding
package main

import (
	"fmt"
	"os"

	"shopify-pricer/internal/app/bootstrap"
	"shopify-pricer/internal/app/usecases"
	"shopify-pricer/internal/domain/pricing"
)

func main() {
	rt, err := bootstrap.New()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	raw := rt.Config.Adjust.Percentage
	if len(os.Args) > 1 {
		raw = os.Args[1]
	}
	percentage, err := pricing.ParsePercentage(raw)
	if err != nil {
		rt.Logger.LogError("adjustBasePrices invalid ADJUST_PERCENTAGE", err)
		rt.Close()
		os.Exit(2)
	}

	ctx, cancel := rt.Context(rt.Config.JobTimeout)
	defer cancel()

	adjust := usecases.NewAdjustBasePrices(rt.Shopify, rt.Shopify, rt.Shopify, usecases.AdjustOptions{
		Percentage:  percentage,
		Eligibility: pricing.Eligibility(rt.Config.Sync.Eligibility),
		DryRun:      rt.Config.Adjust.DryRun,
	}, rt.Runs, rt.Logger)

	if _, err := adjust.Run(ctx); err != nil {
		rt.Logger.LogError("adjustBasePrices error", err)
		rt.Close()
		os.Exit(1)
	}
}
