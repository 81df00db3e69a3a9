package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "accounts.csv",
		"id,email,name,role,status,affiliation_id\n"+
			"1,pin@example.com,Pat,PIN,active,\n"+
			"2,csr@example.com,,CSR,active,7\n")

	rows, err := loadCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "pin@example.com", rows[0]["email"])
	// empty cells are omitted entirely
	require.NotContains(t, rows[0], "affiliation_id")
	require.NotContains(t, rows[1], "name")
	require.Equal(t, "7", rows[1]["affiliation_id"])
}

func TestLoadJSONRows(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "regions.json", `[{"id": 1, "name": "North"}, {"name": "South"}]`)
	rows, err := loadJSONRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "North", rows[0]["name"])

	// single object accepted as a one-row seed
	path = writeFile(t, dir, "one.json", `{"id": 9, "name": "East"}`)
	rows, err = loadJSONRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = loadJSONRows(filepath.Join(dir, "missing.json"))
	require.True(t, os.IsNotExist(err))
}
