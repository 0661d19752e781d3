package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// Loader failure modes, distinguished so the ingest boundary can report
// them separately.
var (
	ErrEmptyFile    = errors.New("csv file has no data rows")
	ErrUndecodable  = errors.New("could not decode csv with any attempted encoding")
	ErrFileNotFound = errors.New("csv file not found")
)

// LoadCSV reads a CSV file into a table, trying encodings in fixed
// priority order (UTF-8, Windows-1252, ISO-8859-1) and normalizing the
// header. The first successful decode wins; there is no probabilistic
// detection.
func LoadCSV(path string) (*model.Table, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, "", fmt.Errorf("failed to read csv file: %w", err)
	}

	text, encodingUsed, err := decodeBytes(raw)
	if err != nil {
		return nil, "", err
	}

	table, err := parseCSV(text)
	if err != nil {
		return nil, "", err
	}

	table = NormalizeHeaders(table)
	if table.NumRows() == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	log.Printf("✅ Loaded CSV %s (%d rows, %d columns, encoding: %s)",
		path, table.NumRows(), table.NumCols(), encodingUsed)
	return table, encodingUsed, nil
}

// decodeBytes walks the fixed encoding list and returns the first clean
// decode. ISO-8859-1 defines every byte so it acts as the terminal
// fallback.
func decodeBytes(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	if s, err := charmap.Windows1252.NewDecoder().String(string(raw)); err == nil &&
		!strings.ContainsRune(s, utf8.RuneError) {
		return s, "windows-1252", nil
	}
	if s, err := charmap.ISO8859_1.NewDecoder().String(string(raw)); err == nil {
		return s, "iso-8859-1", nil
	}
	return "", "", ErrUndecodable
}

func parseCSV(text string) (*model.Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	var rows [][]interface{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read error: %w", err)
		}
		cells := make([]interface{}, len(record))
		for i, field := range record {
			cells[i] = utils.ParseCell(field)
		}
		rows = append(rows, cells)
	}
	return model.NewTable(columns, rows), nil
}

// NormalizeHeaders repairs a table's column names. When at least half the
// headers are blank or pandas-style "Unnamed" placeholders the first data
// row is promoted to become the header; otherwise existing names are
// trimmed, blanks replaced with column_<position>, and collisions suffixed
// _2, _3, and so on. Running it on an already-normalized table changes
// nothing.
func NormalizeHeaders(t *model.Table) *model.Table {
	if t.NumCols() == 0 {
		return t
	}

	unnamed := 0
	for _, col := range t.Columns {
		if isPlaceholderName(col) {
			unnamed++
		}
	}
	threshold := (t.NumCols() + 1) / 2

	if unnamed >= threshold && t.NumRows() > 0 {
		candidate := t.Rows[0]
		hasContent := false
		for _, v := range candidate {
			if strings.TrimSpace(model.FormatCell(v)) != "" {
				hasContent = true
				break
			}
		}
		if hasContent {
			names := make([]string, len(candidate))
			for i, v := range candidate {
				names[i] = model.FormatCell(v)
			}
			t.Columns = dedupeNames(cleanNames(names))
			t.Rows = t.Rows[1:]
			return t
		}
	}

	t.Columns = dedupeNames(cleanNames(t.Columns))
	return t
}

func isPlaceholderName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), "unnamed")
}

func cleanNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		cleaned := strings.TrimSpace(name)
		if isPlaceholderName(cleaned) {
			cleaned = fmt.Sprintf("column_%d", i+1)
		}
		out[i] = cleaned
	}
	return out
}

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, base := range names {
		name := base
		for counter := 2; seen[name]; counter++ {
			name = fmt.Sprintf("%s_%d", base, counter)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
