// replays BACKUP_FILE onto the shop by product title
package main

import (
	"fmt"
	"os"

	"shopify-pricer/internal/adapters/storage/localfs"
	"shopify-pricer/internal/app/bootstrap"
	"shopify-pricer/internal/app/usecases"
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

	restore := usecases.NewRestoreBasePrices(
		rt.Shopify,
		rt.Shopify,
		localfs.NewSnapshotStore(rt.Config.Files.Backup),
		rt.Runs,
		rt.Logger,
	)
	if _, err := restore.Run(ctx); err != nil {
		rt.Logger.LogError("restoreBasePrices error", err)
		rt.Close()
		os.Exit(1)
	}
}
