package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

var testLogger = logger.New(logger.LevelError, "console")

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestOpenFileAndDecodeKeepsStrings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "customers.csv", []byte("\ufeffcustomer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state\n"+
		"c1,u1,01037,sao paulo,SP\n"+
		"c2,u2,14409,franca,SP\n"))

	df, err := OpenFileAndDecode(path, types.SourceCustomers, EncodingUTF8)
	require.NoError(t, err)
	require.NoError(t, ValidateColumns(df, types.SourceCustomers))

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, "customer_id", df.Names()[0])
	assert.Equal(t, "01037", df.Col("customer_zip_code_prefix").Elem(0).String())
}

func TestOpenFileAndDecodeWindows1252(t *testing.T) {
	dir := t.TempDir()
	encoded, err := charmap.Windows1252.NewEncoder().String("geolocation_zip_code_prefix,geolocation_city\n01037,são paulo\n")
	require.NoError(t, err)
	path := writeFile(t, dir, "geo.csv", []byte(encoded))

	df, err := OpenFileAndDecode(path, types.SourceGeolocation, EncodingWindows1252)
	require.NoError(t, err)
	assert.Equal(t, "são paulo", df.Col("geolocation_city").Elem(0).String())
}

func TestOpenFileAndDecodeMissingFile(t *testing.T) {
	_, err := OpenFileAndDecode(filepath.Join(t.TempDir(), "orders.csv"), types.SourceOrders, EncodingUTF8)

	var notFound *types.SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, types.SourceOrders, notFound.Source)
}

func TestOpenFileAndDecodeUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", []byte("order_id\no1\n"))

	_, err := OpenFileAndDecode(path, types.SourceOrders, "ebcdic")
	assert.Error(t, err)
}

func TestOpenFileAndDecodeHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "customers.csv", []byte("customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state\n"))

	df, err := OpenFileAndDecode(path, types.SourceCustomers, EncodingUTF8)
	require.NoError(t, err)
	require.NoError(t, ValidateColumns(df, types.SourceCustomers))

	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, types.ColumnsForSource[types.SourceCustomers], df.Names())
}

func TestOpenFileAndDecodeEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "customers.csv", nil)

	_, err := OpenFileAndDecode(path, types.SourceCustomers, EncodingUTF8)
	assert.Error(t, err)
}

func TestValidateColumnsReportsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "customers.csv", []byte("customer_id,customer_unique_id,customer_city,customer_state\nc1,u1,x,SP\n"))

	df, err := OpenFileAndDecode(path, types.SourceCustomers, EncodingUTF8)
	require.NoError(t, err)

	err = ValidateColumns(df, types.SourceCustomers)
	var mismatch *types.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, types.SourceCustomers, mismatch.Source)
	assert.Equal(t, types.CustomerZipCodePrefix, mismatch.Column)
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	frame := NewStringFrame([]string{"a", "b"}, [][]string{{"1", ""}, {"2", "x,y"}})

	written, err := WriteArtifacts(dir, []Artifact{{Name: "table.csv", Frame: frame}}, nil, testLogger)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "table.csv")}, written)

	content, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\n2,\"x,y\"\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteArtifactsIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	good := NewStringFrame([]string{"a"}, [][]string{{"1"}})
	bad := dataframe.DataFrame{Err: errors.New("render failed")}

	_, err := WriteArtifacts(dir, []Artifact{
		{Name: "good.csv", Frame: good},
		{Name: "bad.csv", Frame: bad},
	}, []string{"kept.csv"}, testLogger)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteArtifactsOverwrites(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "table.csv", []byte("stale content that is longer than the new one\n"))

	_, err := WriteArtifacts(dir, []Artifact{{Name: "table.csv", Frame: NewStringFrame([]string{"a"}, [][]string{{"1"}})}}, nil, testLogger)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "table.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content))
}

func TestWriteArtifactsRemovesStale(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.csv", []byte("a\n1\n"))

	written, err := WriteArtifacts(dir, []Artifact{{Name: "table.csv", Frame: NewStringFrame([]string{"a"}, [][]string{{"2"}})}}, []string{"old.csv", "never-written.csv"}, testLogger)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "table.csv")}, written)

	assert.NoFileExists(t, filepath.Join(dir, "old.csv"))
	assert.FileExists(t, filepath.Join(dir, "table.csv"))
}

func TestWriteArtifactsKeepsStaleOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.csv", []byte("a\n1\n"))

	_, err := WriteArtifacts(dir, []Artifact{{Name: "bad.csv", Frame: dataframe.DataFrame{Err: errors.New("render failed")}}}, []string{"old.csv"}, testLogger)
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(dir, "old.csv"))
}
