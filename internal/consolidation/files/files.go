package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
)

// Artifact is a rendered output table waiting to be written.
type Artifact struct {
	Name  string
	Frame dataframe.DataFrame
}

// NewDecodingReader wraps r so that it yields UTF-8 text.
func NewDecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		// Exports from spreadsheet tools often start with a BOM.
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case EncodingLatin1, "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", encoding)
	}
}

// OpenFileAndDecode reads a comma separated source into a dataframe whose
// columns are all strings, so that values such as zero-padded postal codes
// reach the converters untouched. A source holding only its header row
// yields a frame with those columns and no rows.
func OpenFileAndDecode(path string, source types.SourceType, encoding string) (dataframe.DataFrame, error) {
	df, err := readFrame(path, source, encoding, true)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Error() == nil {
		return df, nil
	}

	// gota refuses a header without rows; read the header as data instead.
	if header, ok := headerOnly(path, source, encoding); ok {
		if empty := NewStringFrame(header, nil); empty.Error() == nil {
			return empty, nil
		}
	}
	return dataframe.DataFrame{}, fmt.Errorf("failed to read %s source %s: %w", source, path, df.Error())
}

func readFrame(path string, source types.SourceType, encoding string, hasHeader bool) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, &types.SourceNotFoundError{Source: source, Path: path, Err: err}
		}
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s source %s: %w", source, path, err)
	}

	defer file.Close()

	decoded, err := NewDecodingReader(file, encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return dataframe.ReadCSV(decoded,
		dataframe.WithDelimiter(','),
		dataframe.WithLazyQuotes(true),
		dataframe.HasHeader(hasHeader),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	), nil
}

func headerOnly(path string, source types.SourceType, encoding string) ([]string, bool) {
	raw, err := readFrame(path, source, encoding, false)
	if err != nil || raw.Error() != nil || raw.Nrow() != 1 {
		return nil, false
	}
	// Records puts the generated column names first.
	records := raw.Records()
	if len(records) != 2 {
		return nil, false
	}
	header := records[1]
	for _, name := range header {
		if strings.TrimSpace(name) == "" {
			return nil, false
		}
	}
	return header, true
}

// ValidateColumns checks that df carries every column the source requires.
func ValidateColumns(df dataframe.DataFrame, source types.SourceType) error {
	missing := utils.MissingColumns(&df, types.ColumnsForSource[source])
	if len(missing) > 0 {
		return &types.SchemaMismatchError{Source: source, Column: missing[0], Missing: missing}
	}
	return nil
}

// NewStringFrame builds a dataframe of string columns in the given order.
func NewStringFrame(columns []string, rows [][]string) dataframe.DataFrame {
	cols := make([]series.Series, len(columns))
	for c, name := range columns {
		values := make([]string, len(rows))
		for r, row := range rows {
			values[r] = row[c]
		}
		cols[c] = series.New(values, series.String, name)
	}
	return dataframe.New(cols...)
}

// WriteArtifacts writes every artifact into dir. Each one is first written
// to a temporary file; only when all of them were written successfully are
// they renamed into place, so a failed run never leaves a truncated or
// partial set of outputs behind. Files named in stale are removed from dir
// once the new set is in place, so that outputs of an earlier run that this
// run does not produce do not linger next to the fresh ones.
func WriteArtifacts(dir string, artifacts []Artifact, stale []string, appLogger *logger.Logger) ([]string, error) {
	const component = "ArtifactWriter"

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	temps := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}

	for _, a := range artifacts {
		if a.Frame.Error() != nil {
			cleanup()
			return nil, fmt.Errorf("artifact %s is invalid: %w", a.Name, a.Frame.Error())
		}

		tmp, err := writeTemp(dir, a)
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to write artifact %s: %w", a.Name, err)
		}
		appLogger.Debug(component, "Artifact staged: name=%s rows=%d tmp=%s", a.Name, a.Frame.Nrow(), tmp)
	}

	written := make([]string, 0, len(artifacts))
	for i, a := range artifacts {
		final := filepath.Join(dir, a.Name)
		if err := os.Rename(temps[i], final); err != nil {
			for _, tmp := range temps[i:] {
				os.Remove(tmp)
			}
			return written, fmt.Errorf("failed to move artifact %s into place: %w", a.Name, err)
		}
		written = append(written, final)
		appLogger.Info(component, "Artifact written: path=%s rows=%d", final, a.Frame.Nrow())
	}

	for _, name := range stale {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return written, fmt.Errorf("failed to remove stale artifact %s: %w", name, err)
		}
		appLogger.Info(component, "Stale artifact removed: path=%s", path)
	}

	return written, nil
}

func writeTemp(dir string, a Artifact) (string, error) {
	f, err := os.CreateTemp(dir, "."+a.Name+".tmp-*")
	if err != nil {
		return "", err
	}
	name := f.Name()

	if err := a.Frame.WriteCSV(f); err != nil {
		f.Close()
		return name, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return name, err
	}
	if err := f.Close(); err != nil {
		return name, err
	}
	return name, os.Chmod(name, 0o644)
}
