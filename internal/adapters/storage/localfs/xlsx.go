package localfs

import (
	"sort"

	"github.com/xuri/excelize/v2"

	"shopify-pricer/internal/domain/model"
)

const snapshotSheet = "Base prices"

// WriteSnapshotSheet exports a snapshot as a two column sheet sorted by title.
func WriteSnapshotSheet(path string, snapshot model.PriceBackupSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", snapshotSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(snapshotSheet, "A1", &[]any{"Title", "Base price"}); err != nil {
		return err
	}

	titles := make([]string, 0, len(snapshot))
	for title := range snapshot {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for i, title := range titles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(snapshotSheet, cell, &[]any{title, snapshot[title].InexactFloat64()}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
