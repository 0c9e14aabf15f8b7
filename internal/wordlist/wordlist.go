// Package wordlist loads practice words from files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one imported row: display text with an optional reading and
// romaji.
type Entry struct {
	Text    string
	Reading string
	Romaji  string
	// Line is the 1-based source line or row.
	Line int
}

// LoadEntries reads entries from a .txt/.tsv file or the first sheet of an
// .xlsx workbook.
func LoadEntries(path string) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		entries, err = loadWorkbook(path)
	default:
		entries, err = loadText(path)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return entries, nil
}

func loadText(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if entry, ok := parseColumns(strings.Split(text, "\t"), line); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func loadWorkbook(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	var entries []Entry
	for i, row := range rows {
		if entry, ok := parseColumns(row, i+1); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func parseColumns(cols []string, line int) (Entry, bool) {
	get := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}
	entry := Entry{Text: get(0), Reading: get(1), Romaji: strings.ToLower(get(2)), Line: line}
	if entry.Text == "" {
		return Entry{}, false
	}
	return entry, true
}
