package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ghl-connection.js")
	require.NoError(t, writeTestFile(path, "const x = 1;"))

	text, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;", text)

	_, err = ReadText(filepath.Join(dir, "missing.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: read")
}

func TestReadJSONRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old-data.json")
	require.NoError(t, writeTestFile(path, `[{"Microsite Name":"Acme","GHL Location ID":"id1"}]`))

	records, err := ReadJSONRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "id1", records[0].LocationID())
}

func TestReadJSONRecords_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadJSONRecords(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: read")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, writeTestFile(bad, `[{"Microsite Name":`))
	_, err = ReadJSONRecords(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: parse")
}

func TestReadXLSXRecords(t *testing.T) {
	path := writeWorkbook(t, testSheet{"LocationData", [][]string{
		{"Microsite Name", "GHL Location ID", "Location Token", ""},
		{"Acme", "id1", "tok1", "ignored"},
		{"", "", "", ""},
		{"Bravo", "", "tok2"},
	}})

	records, err := ReadXLSXRecords(path, "LocationData")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `{"Microsite Name":"Acme","GHL Location ID":"id1","Location Token":"tok1"}`, records[0].String())
	assert.Equal(t, `{"Microsite Name":"Bravo","Location Token":"tok2"}`, records[1].String())
}

func TestReadXLSXRecords_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, testSheet{name: "Sheet1"})

	records, err := ReadXLSXRecords(path, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecords_Dispatch(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "old-data.json")
	require.NoError(t, writeTestFile(jsonPath, `[{"Microsite Name":"FromJSON"}]`))

	records, err := ReadRecords(jsonPath, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FromJSON", records[0].MicrositeName())

	xlsxPath := writeWorkbook(t, testSheet{"Sheet1", [][]string{{"Microsite Name"}, {"FromXLSX"}}})
	records, err = ReadRecords(xlsxPath, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FromXLSX", records[0].MicrositeName())
}
