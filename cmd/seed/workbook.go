package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected in the reference data workbook
const (
	sheetCountries               = "countries"
	sheetVendorTypes             = "vendor_types"
	sheetVendorTypeCountries     = "vendor_type_countries"
	sheetDocumentTypes           = "document_types"
	sheetDocumentTypeVendorTypes = "document_type_vendor_types"
)

type countryRow struct {
	ISOCode  string
	Name     string
	Currency string
	Status   model.RecordStatus
}

type vendorTypeRow struct {
	Code   string
	Name   string
	Status model.RecordStatus
}

type vendorTypeCountryRow struct {
	VendorTypeCode string
	CountryISO     string
	Status         model.RecordStatus
}

type documentTypeRow struct {
	CountryISO  string
	Code        string
	Name        string
	Description string
	Scope       model.DocumentScope
	Status      model.RecordStatus
}

type documentTypeVendorTypeRow struct {
	CountryISO       string
	DocumentTypeCode string
	VendorTypeCode   string
	IsRequired       *bool
}

// Workbook is the parsed content of every reference sheet.
type Workbook struct {
	Countries               []countryRow
	VendorTypes             []vendorTypeRow
	VendorTypeCountries     []vendorTypeCountryRow
	DocumentTypes           []documentTypeRow
	DocumentTypeVendorTypes []documentTypeVendorTypeRow
}

func readWorkbook(filePath string) (*Workbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}

	countries, err := readSheet(f, sheetCountries, "iso_code", "name", "currency")
	if err != nil {
		return nil, err
	}
	for _, r := range countries {
		wb.Countries = append(wb.Countries, countryRow{
			ISOCode:  strings.ToUpper(r.get("iso_code")),
			Name:     r.get("name"),
			Currency: strings.ToUpper(r.get("currency")),
			Status:   parseRecordStatus(r.get("status")),
		})
	}

	vendorTypes, err := readSheet(f, sheetVendorTypes, "code", "name")
	if err != nil {
		return nil, err
	}
	for _, r := range vendorTypes {
		wb.VendorTypes = append(wb.VendorTypes, vendorTypeRow{
			Code:   strings.ToUpper(r.get("code")),
			Name:   r.get("name"),
			Status: parseRecordStatus(r.get("status")),
		})
	}

	links, err := readSheet(f, sheetVendorTypeCountries, "vendor_type_code", "country_iso")
	if err != nil {
		return nil, err
	}
	for _, r := range links {
		wb.VendorTypeCountries = append(wb.VendorTypeCountries, vendorTypeCountryRow{
			VendorTypeCode: strings.ToUpper(r.get("vendor_type_code")),
			CountryISO:     strings.ToUpper(r.get("country_iso")),
			Status:         parseRecordStatus(r.get("status")),
		})
	}

	documentTypes, err := readSheet(f, sheetDocumentTypes, "country_iso", "code", "name")
	if err != nil {
		return nil, err
	}
	for _, r := range documentTypes {
		scope := model.DocumentScope(strings.ToUpper(r.get("scope")))
		if scope == "" {
			scope = model.DocumentScopeVendor
		}
		if scope != model.DocumentScopeVendor && scope != model.DocumentScopeOutlet {
			return nil, fmt.Errorf("%s row %d: unknown scope %q", sheetDocumentTypes, r.line, scope)
		}
		wb.DocumentTypes = append(wb.DocumentTypes, documentTypeRow{
			CountryISO:  strings.ToUpper(r.get("country_iso")),
			Code:        strings.ToUpper(r.get("code")),
			Name:        r.get("name"),
			Description: r.get("description"),
			Scope:       scope,
			Status:      parseRecordStatus(r.get("status")),
		})
	}

	requirements, err := readSheet(f, sheetDocumentTypeVendorTypes, "country_iso", "document_type_code", "vendor_type_code")
	if err != nil {
		return nil, err
	}
	for _, r := range requirements {
		required, err := parseOptionalBool(r.get("is_required"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", sheetDocumentTypeVendorTypes, r.line, err)
		}
		wb.DocumentTypeVendorTypes = append(wb.DocumentTypeVendorTypes, documentTypeVendorTypeRow{
			CountryISO:       strings.ToUpper(r.get("country_iso")),
			DocumentTypeCode: strings.ToUpper(r.get("document_type_code")),
			VendorTypeCode:   strings.ToUpper(r.get("vendor_type_code")),
			IsRequired:       required,
		})
	}

	return wb, nil
}

type sheetRow struct {
	line   int
	values map[string]string
}

func (r sheetRow) get(column string) string {
	return r.values[column]
}

// readSheet maps every data row by the header names of the first row.
// Rows missing any required column are rejected with their line number.
func readSheet(f *excelize.File, sheet string, required ...string) ([]sheetRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, col := range required {
		found := false
		for _, h := range headers {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet %s is missing column %q", sheet, col)
		}
	}

	var result []sheetRow
	for i, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		empty := true
		for j, h := range headers {
			if j < len(row) {
				values[h] = strings.TrimSpace(row[j])
				if values[h] != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}

		line := i + 2
		for _, col := range required {
			if values[col] == "" {
				return nil, fmt.Errorf("sheet %s row %d: %s is empty", sheet, line, col)
			}
		}
		result = append(result, sheetRow{line: line, values: values})
	}
	return result, nil
}

func parseRecordStatus(s string) model.RecordStatus {
	switch model.RecordStatus(strings.ToUpper(s)) {
	case model.RecordStatusInactive:
		return model.RecordStatusInactive
	case model.RecordStatusDeleted:
		return model.RecordStatusDeleted
	default:
		return model.RecordStatusActive
	}
}

// parseOptionalBool keeps a blank cell as "not specified".
func parseOptionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		b := true
		return &b, nil
	case "n", "no":
		b := false
		return &b, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid is_required value %q", s)
	}
	return &b, nil
}
