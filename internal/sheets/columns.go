package sheets

import (
	"strconv"
	"time"

	"reefficiency/internal/core"
)

// Columns holds the worksheet header labels. The three labels the
// aggregation engine requires (category, income, expenditure) come from
// the same configuration, so the write path and the report path always
// agree on the schema.
type Columns struct {
	Date        string
	Category    string
	Description string
	Income      string
	Expenditure string
}

// DefaultColumns returns the labels the backing spreadsheet has always
// used.
func DefaultColumns() Columns {
	return Columns{
		Date:        "Tanggal",
		Category:    "Kategori",
		Description: "Deskripsi",
		Income:      "Pemasukan",
		Expenditure: "Pengeluaran",
	}
}

// Header returns the header row for a fresh period worksheet.
func (c Columns) Header() []string {
	return []string{c.Date, c.Category, c.Description, c.Income, c.Expenditure}
}

// Row maps a transaction onto an existing header row. Cells whose label is
// not present in the header are dropped rather than shifted, so a sheet
// with rearranged or extra columns still receives values in the right
// places.
func (c Columns) Row(headers []string, tx core.Transaction) []string {
	date := tx.Date
	if date.IsZero() {
		date = time.Now()
	}
	amount := strconv.FormatInt(tx.Amount.Rupiah, 10)
	values := map[string]string{
		c.Date:        date.Format("2006-01-02"),
		c.Category:    tx.Category,
		c.Description: tx.Description,
	}
	if tx.Kind == core.Income {
		values[c.Income] = amount
	} else {
		values[c.Expenditure] = amount
	}

	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = values[h]
	}
	return row
}
