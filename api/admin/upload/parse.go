package upload

import (
	"encoding/csv"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"CiviPortal/api/constants"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// FileExt returns the lower-cased extension of an uploaded file name.
func FileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ParseUploadFile turns an uploaded spreadsheet into raw rows. CSV is read
// whole; .xlsx goes through excelize and legacy .xls through the BIFF
// reader. The first returned row is the header.
func ParseUploadFile(file multipart.File, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	case ".xls":
		wb, err := xls.OpenReader(file, "utf-8")
		if err != nil {
			return nil, err
		}
		sheet := wb.GetSheet(0)
		if sheet == nil {
			return nil, errors.New("xls file has no sheets")
		}
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for j := 0; j < row.LastCol(); j++ {
				cells = append(cells, row.Col(j))
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}
	return nil, errors.New(constants.ErrUnsupportedFileType)
}

// SplitHeaderRows separates the header row from data rows, dropping fully
// empty trailing rows that spreadsheets commonly emit.
func SplitHeaderRows(records [][]string) (headers []string, rows [][]string, err error) {
	if len(records) == 0 {
		return nil, nil, errors.New(constants.ErrUploadEmptyFile)
	}
	headers = records[0]
	for _, row := range records[1:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return headers, nil, errors.New(constants.ErrUploadEmptyFile)
	}
	return headers, rows, nil
}
