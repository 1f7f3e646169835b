package menu

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sahone-backend/internal/apperr"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult reports one spreadsheet import. Errors carry the sheet row
// number of every skipped row.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Columns: Name, Category, Full Price, Half Price, Description.
// A first row whose first cell is "name" is treated as the header.
func ImportMenuItems(db *gorm.DB, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	res := &ImportResult{Errors: []string{}}
	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}
		in, err := parseRow(row)
		if err == nil {
			_, err = CreateMenuItem(db, in)
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %s", i+1, apperr.Message(err)))
			continue
		}
		res.Imported++
	}
	return res, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseRow(row []string) (CreateMenuItemRequest, error) {
	in := CreateMenuItemRequest{
		Name:        cell(row, 0),
		Category:    cell(row, 1),
		Description: cell(row, 4),
	}
	full, err := strconv.ParseFloat(cell(row, 2), 64)
	if err != nil {
		return in, apperr.Invalid(fmt.Sprintf("invalid full price %q", cell(row, 2)))
	}
	in.FullPrice = full
	if v := cell(row, 3); v != "" {
		half, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, apperr.Invalid(fmt.Sprintf("invalid half price %q", v))
		}
		in.HalfPrice = &half
		in.HasHalfPortion = true
	}
	return in, nil
}
