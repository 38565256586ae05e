package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"flour-ledger/internal/models"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

var (
	invoiceHeaders = []string{"Date", "Time", "Title", "Description", "Price", "Quantity", "Total"}
	orderHeaders   = []string{"Date", "Customer", "Phone", "Flour", "Status", "Completed at"}
)

func logicalDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func invoiceRow(inv models.Invoice) []string {
	return []string{
		logicalDate(inv.Year, inv.Month, inv.Day),
		deref(inv.Time),
		inv.Title,
		deref(inv.Description),
		inv.Price.StringFixed(2),
		strconv.Itoa(inv.Quantity),
		inv.Total().StringFixed(2),
	}
}

func orderRow(o models.Order) []string {
	customer, phone := "", ""
	if o.User != nil {
		customer, phone = o.User.Name, o.User.PhoneNumber
	}
	status, doneAt := "pending", ""
	if o.DoneAt != nil {
		status, doneAt = "done", o.DoneAt.Local().Format("2006-01-02 15:04")
	}
	return []string{
		logicalDate(o.Year, o.Month, o.Day),
		customer,
		phone,
		o.FlourAmount.String(),
		status,
		doneAt,
	}
}

// InvoicesCSV writes invoices as UTF-8 CSV with a BOM so spreadsheet apps
// pick the right encoding.
func InvoicesCSV(w io.Writer, invoices []models.Invoice) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(invoiceHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, inv := range invoices {
		if err := writer.Write(invoiceRow(inv)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// InvoicesXLSX writes invoices as a one-sheet workbook.
func InvoicesXLSX(w io.Writer, invoices []models.Invoice) error {
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, invoiceRow(inv))
	}
	return writeSheet(w, "Invoices", invoiceHeaders, rows, []float64{12, 8, 24, 30, 12, 10, 12})
}

// OrdersXLSX writes orders, with their customer when known, as a one-sheet
// workbook.
func OrdersXLSX(w io.Writer, orders []models.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}
	return writeSheet(w, "Orders", orderHeaders, rows, []float64{12, 24, 16, 10, 10, 18})
}

func writeSheet(w io.Writer, sheetName string, headers []string, rows [][]string, widths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
