package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxExportPages stops a misbehaving backend that never returns an empty page.
const maxExportPages = 10000

// CollectAll fetches every page of the filter until the backend returns an
// empty page.
func CollectAll(ctx context.Context, src ItemSource, category, search string, limit int) ([]Item, error) {
	var all []Item
	for page := 1; page <= maxExportPages; page++ {
		items, err := src.FetchItems(ctx, ItemQuery{Category: category, Search: search, Page: page, Limit: limit})
		if err != nil {
			return all, fmt.Errorf("page %d: %w", page, err)
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
	return all, fmt.Errorf("export stopped after %d pages", maxExportPages)
}

// WriteXLSX writes items to a spreadsheet at path.
func WriteXLSX(path string, items []Item) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := []interface{}{"id", "title", "price", "category", "description", "images"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, it := range items {
		row := []interface{}{it.ID, it.Title, it.Price, it.Category, it.Description, strings.Join(it.Images, "\n")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
