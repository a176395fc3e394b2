package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/autocitypro/import-service/internal/models"
)

var (
	// ErrUnsupportedFormat is returned before any parsing is attempted.
	ErrUnsupportedFormat = errors.New("only CSV and Excel files are supported")
	// ErrEmptyFile is returned for an empty or header-only file.
	ErrEmptyFile = errors.New("file is empty or could not be parsed")
)

// DetectFormat maps a filename extension to an import format.
func DetectFormat(filename string) (models.ImportFormat, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return models.ImportFormatCSV, nil
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return models.ImportFormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Parse turns raw file bytes into a uniform sheet. The first line/row is
// always the header; data rows are zipped against it positionally, with
// missing trailing cells becoming empty strings. Rows that are entirely
// blank after trimming are discarded.
func Parse(data []byte, format models.ImportFormat) (*models.Sheet, error) {
	switch format {
	case models.ImportFormatCSV:
		return parseCSV(bytes.NewReader(data))
	case models.ImportFormatXLSX:
		return parseXLSX(bytes.NewReader(data))
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCSV(r io.Reader) (*models.Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be shorter or longer than the header

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := normalizeHeaders(header)

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		records = append(records, record)
	}

	return buildSheet(headers, records)
}

func parseXLSX(r io.Reader) (*models.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// First sheet only.
	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, ErrEmptyFile
	}

	headers := normalizeHeaders(excelRows[0])
	return buildSheet(headers, excelRows[1:])
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		// Tolerate templates that mark required columns.
		headers[i] = strings.TrimSuffix(h, " *")
	}
	return headers
}

// buildSheet zips records against headers and drops fully blank rows.
func buildSheet(headers []string, records [][]string) (*models.Sheet, error) {
	var rows []map[string]string
	for _, record := range records {
		row := make(map[string]string, len(headers))
		blank := true
		for i, h := range headers {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[h] = value
			if value != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	if len(headers) == 0 || len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return &models.Sheet{Headers: headers, Rows: rows}, nil
}
