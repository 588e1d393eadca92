// pushes rule-table prices to every eligible variant, per SYNC_TRANSPORT
package main

import (
	"fmt"
	"os"

	"shopify-pricer/internal/adapters/storage/localfs"
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

	ctx, cancel := rt.Context(rt.Config.JobTimeout)
	defer cancel()

	syncPrices := usecases.NewSyncPrices(usecases.SyncPricesDeps{
		Catalog:     rt.Shopify,
		BasePrices:  rt.Shopify,
		Variants:    rt.Shopify,
		Bulk:        rt.Shopify,
		Rules:       localfs.NewRuleTableStore(rt.Config.Files.VariantPrices),
		PayloadFile: rt.Config.Files.BulkPayload,
		Recorder:    rt.Runs,
	}, usecases.SyncMode{
		Transport:   rt.Config.Sync.Transport,
		Eligibility: pricing.Eligibility(rt.Config.Sync.Eligibility),
	}, rt.Logger)

	if _, err := syncPrices.Run(ctx); err != nil {
		rt.Logger.LogError("syncPrices error", err)
		rt.Close()
		os.Exit(1)
	}
}
