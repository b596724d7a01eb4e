package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopdesk/shopdesk/internal/credit"
	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/shared"
)

// InventoryHeader is the column layout of the catalogue export.
var InventoryHeader = []string{"Item", "Quantity", "Price", "Supplier", "Category"}

// WriteInventoryCSV writes one row per item in the given order.
func WriteInventoryCSV(w io.Writer, items []inventory.Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(InventoryHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.Name,
			strconv.Itoa(item.Quantity),
			item.Price.String(),
			item.Supplier,
			string(item.Category),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCreditCSV emits the credit book.
func WriteCreditCSV(w io.Writer, entries []credit.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Customer", "Amount Due", "Due Date"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Customer, e.AmountDue.StringFixed(2), shared.FormatDate(e.DueDate)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSalesCSV emits sale records with their line totals.
func WriteSalesCSV(w io.Writer, records []sales.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Customer", "Item", "Quantity", "Unit Price", "Total", "Date"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{
			r.ID.String(),
			r.Customer,
			r.ItemName,
			strconv.Itoa(r.Quantity),
			r.UnitPrice.StringFixed(2),
			r.Total().StringFixed(2),
			shared.FormatDate(r.Date),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
