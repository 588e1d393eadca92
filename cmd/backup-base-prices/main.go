// snapshots every product's base_price metafield to BACKUP_FILE
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

	backup := usecases.NewBackupBasePrices(
		rt.Shopify,
		rt.Shopify,
		localfs.NewSnapshotStore(rt.Config.Files.Backup),
		rt.Config.Files.BackupXLSX,
		rt.Runs,
		rt.Logger,
	)
	if _, err := backup.Run(ctx); err != nil {
		rt.Logger.LogError("backupBasePrices error", err)
		rt.Close()
		os.Exit(1)
	}
}
