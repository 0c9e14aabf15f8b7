package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadEntriesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.tsv")
	content := "# comment\n寿司\tすし\tsushi\n\n猫\tねこ\nカメラ\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("load entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Text != "寿司" || entries[0].Reading != "すし" || entries[0].Romaji != "sushi" || entries[0].Line != 2 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Reading != "ねこ" || entries[1].Romaji != "" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].Text != "カメラ" || entries[2].Line != 5 {
		t.Fatalf("unexpected third entry: %+v", entries[2])
	}
}

func TestLoadEntriesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# only comments\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadEntries(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestLoadEntriesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"寿司", "すし", "SUSHI"},
		{"猫", "ねこ"},
		{""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}

	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("load entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Romaji != "sushi" {
		t.Fatalf("expected lowercased romaji, got %q", entries[0].Romaji)
	}
	if entries[1].Reading != "ねこ" || entries[1].Line != 2 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}
