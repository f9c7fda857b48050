package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type row struct {
	Name   string `csv:"name"`
	Amount string `csv:"amount"`
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, FormatCSV, []row{{"Ana", "800.00"}, {"Budi", "0.00"}})
	require.NoError(t, err)
	assert.Equal(t, "name,amount\nAna,800.00\nBudi,0.00\n", buf.String())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "leaderboard.csv", FormatCSV.Filename("leaderboard"))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, FormatXLSX, []row{{"Ana", "800.00"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name", "amount"}, {"Ana", "800.00"}}, rows)
}

func TestWriteUnsupported(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), []row{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
