package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTableCSV(t *testing.T) {
	src := strings.NewReader("Customer ID,First Name\n1,Aarav\n2,Isha\n")

	table, err := ReadTable(src, "customers.csv")

	require.NoError(t, err)
	assert.Equal(t, []string{"Customer ID", "First Name"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Aarav"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Isha"}, table.Rows[1])
}

func TestReadTableCSVRaggedRows(t *testing.T) {
	src := strings.NewReader("Customer ID,First Name,Age\n1,Aarav\n")

	table, err := ReadTable(src, "customers.csv")

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0], 2)
}

func TestReadTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Customer ID", "Monthly Salary"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, 50000}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ReadTable(&buf, "customer_data.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"Customer ID", "Monthly Salary"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "50000", table.Rows[0][1])
}

func TestReadTableUnsupportedExtension(t *testing.T) {
	_, err := ReadTable(strings.NewReader("x"), "customers.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), "customers.csv")
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadTableHeaderOnly(t *testing.T) {
	table, err := ReadTable(strings.NewReader("Customer ID\n"), "customers.csv")

	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}
