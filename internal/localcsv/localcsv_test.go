package localcsv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/bank-cleaner/internal/records"
	"github.com/dvloznov/bank-cleaner/internal/views"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeFile(t, "Date,Description,Amount\n03/01/2024,COFFEE SHOP,-4.50\n03/02/2024,PAYROLL,2500.00\n")

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "COFFEE SHOP", table.Rows[0]["Description"])
	assert.Equal(t, "2500.00", table.Rows[1]["Amount"])
}

func TestReadTableRaggedRows(t *testing.T) {
	path := writeFile(t, "Date,Description,Amount\n03/01/2024,SHORT ROW\n03/02/2024,LONG ROW,-1.00,extra\n")

	table, err := ReadTable(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "", table.Rows[0]["Amount"], "short row pads missing cells")
	assert.Equal(t, "-1.00", table.Rows[1]["Amount"], "long row truncates extras")
}

func TestReadTableEmpty(t *testing.T) {
	path := writeFile(t, "")
	_, err := ReadTable(path)
	require.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cleaned_master.csv", FileName(views.View{Name: views.MasterName}))
	assert.Equal(t, "incoming_payments.csv", FileName(views.View{Name: views.IncomingName}))
	assert.Equal(t, "outgoing_payments.csv", FileName(views.View{Name: views.OutgoingName}))
	assert.Equal(t, "ebay_transactions.csv", FileName(views.View{Name: "merchant:ebay"}))
	assert.Equal(t, "corner_shop_transactions.csv", FileName(views.View{Name: "merchant:Corner Shop"}))
}

func TestWriteViewRoundTrip(t *testing.T) {
	amt := decimal.RequireFromString("-19.99")
	v := views.View{
		Name:   views.OutgoingName,
		Title:  "Outgoing",
		Linked: true,
		Records: []*records.CanonicalRecord{
			{MasterRow: 3, Amount: amt, Details: "EBAY PURCHASE", Category: "eBay"},
		},
	}

	dir := t.TempDir()
	path, err := WriteView(dir, v, "Master")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "outgoing_payments.csv"), path)

	header, rows, err := ReadView(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Amount", "Details", "Category", "Source"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "-19.99", rows[0][1])
	assert.Equal(t, "EBAY PURCHASE", rows[0][2])
	// Plain text reference, not a live formula: the header row shifts data
	// down by one, so master row 3 lands on file row 4.
	assert.Equal(t, "Master!A4", rows[0][4])
}

func TestWriteViewMasterHasNoSource(t *testing.T) {
	v := views.View{
		Name:  views.MasterName,
		Title: "Master",
		Records: []*records.CanonicalRecord{
			{MasterRow: 1, Amount: decimal.RequireFromString("5.00"), Details: "DEPOSIT", Category: "Income"},
		},
	}

	path, err := WriteView(t.TempDir(), v, "Master")
	require.NoError(t, err)

	header, rows, err := ReadView(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Amount", "Details", "Category"}, header)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 4)
}
