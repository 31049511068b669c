package excel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/memodeck/backend/internal/excel"
)

// workbook builds an in-memory .xlsx with the given rows on the first sheet.
func workbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", axis, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestImportCards_Basic(t *testing.T) {
	buf := workbook(t, [][]string{
		{"What is X?", "Y"},
		{"What is Z?", "W"},
	})

	result, err := excel.ImportCards(buf, "folder-1")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(result.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(result.Cards))
	}
	if result.Cards[0].Front != "What is X?" || result.Cards[0].Back != "Y" {
		t.Errorf("unexpected first card: %+v", result.Cards[0])
	}
	if result.Cards[0].FolderID != "folder-1" {
		t.Errorf("expected folder-1, got %s", result.Cards[0].FolderID)
	}
	if result.TotalProcessed != 2 || result.Skipped != 0 || len(result.Errors) != 0 {
		t.Errorf("unexpected summary: %+v", result)
	}
}

func TestImportCards_SkipsHeaderRow(t *testing.T) {
	buf := workbook(t, [][]string{
		{"Front", "Back"},
		{"What is X?", "Y"},
	})

	result, err := excel.ImportCards(buf, "folder-1")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Cards) != 1 || result.TotalProcessed != 1 {
		t.Errorf("header row not skipped: %+v", result)
	}
}

func TestImportCards_BlankAndBadRows(t *testing.T) {
	buf := workbook(t, [][]string{
		{"What is X?", "Y"},
		{"", ""},
		{"orphan front", ""},
	})

	result, err := excel.ImportCards(buf, "folder-1")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(result.Cards) != 1 {
		t.Errorf("expected 1 card, got %d", len(result.Cards))
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped blank row, got %d", result.Skipped)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "row 3") {
		t.Errorf("expected an error naming row 3, got %v", result.Errors)
	}
}

func TestImportCards_NotASpreadsheet(t *testing.T) {
	if _, err := excel.ImportCards(strings.NewReader("this is not xlsx"), "folder-1"); err == nil {
		t.Error("expected an error for a non-spreadsheet stream")
	}
}
