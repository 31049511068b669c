// Package excel imports flashcards from spreadsheet uploads.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/memodeck/backend/internal/domain/card"
)

// ImportResult summarizes one import run. Row numbers in Errors are
// 1-based, matching what the user sees in their spreadsheet program.
type ImportResult struct {
	Cards          []*card.Card
	TotalProcessed int
	Skipped        int
	Errors         []string
}

// ImportCards reads an .xlsx stream and builds cards for folderID from the
// first sheet. Column A is the front, column B the back. A first row that
// looks like a header ("front"/"back" labels) is skipped. Bad rows are
// reported, not fatal.
func ImportCards(r io.Reader, folderID string) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		result.TotalProcessed++

		front, back := "", ""
		if len(row) > 0 {
			front = row[0]
		}
		if len(row) > 1 {
			back = row[1]
		}
		if strings.TrimSpace(front) == "" && strings.TrimSpace(back) == "" {
			result.Skipped++
			continue
		}

		c, err := card.New(folderID, front, back)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Cards = append(result.Cards, c)
	}

	return result, nil
}

func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(row[0]))
	b := strings.ToLower(strings.TrimSpace(row[1]))
	return (a == "front" || a == "question") && (b == "back" || b == "answer")
}
