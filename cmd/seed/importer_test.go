package main

import (
	"path/filepath"
	"testing"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, f *excelize.File, name string, rows [][]interface{}) {
	_, err := f.NewSheet(name)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(name, cell, &row))
	}
}

func kenyaWorkbook(t *testing.T) string {
	f := excelize.NewFile()
	defer f.Close()

	writeSheet(t, f, sheetCountries, [][]interface{}{
		{"iso_code", "name", "currency", "status"},
		{"ke", "Kenya", "kes", "ACTIVE"},
		{"UG", "Uganda", "UGX", "INACTIVE"},
	})
	writeSheet(t, f, sheetVendorTypes, [][]interface{}{
		{"code", "name", "status"},
		{"RESTAURANT", "Restaurant", ""},
		{"OTHER", "Other", "ACTIVE"},
	})
	writeSheet(t, f, sheetVendorTypeCountries, [][]interface{}{
		{"vendor_type_code", "country_iso", "status"},
		{"RESTAURANT", "KE", "ACTIVE"},
		{"OTHER", "KE", "ACTIVE"},
	})
	writeSheet(t, f, sheetDocumentTypes, [][]interface{}{
		{"country_iso", "code", "name", "description", "scope", "status"},
		{"KE", "KE_BUSINESS_PERMIT", "Business Permit", "County single business permit", "VENDOR", "ACTIVE"},
		{"KE", "KE_FOOD_HANDLING", "Food Handling Certificate", "", "", ""},
		{"KE", "KE_KEBS", "KEBS Certificate", "", "VENDOR", "ACTIVE"},
	})
	writeSheet(t, f, sheetDocumentTypeVendorTypes, [][]interface{}{
		{"country_iso", "document_type_code", "vendor_type_code", "is_required"},
		{"KE", "KE_BUSINESS_PERMIT", "RESTAURANT", "TRUE"},
		{"KE", "KE_FOOD_HANDLING", "RESTAURANT", "yes"},
		{"KE", "KE_KEBS", "RESTAURANT", ""},
	})
	f.DeleteSheet("Sheet1")

	path := filepath.Join(t.TempDir(), "reference.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportWorkbook(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	wb, err := readWorkbook(kenyaWorkbook(t))
	require.NoError(t, err)
	require.Len(t, wb.Countries, 2)
	assert.Equal(t, "KE", wb.Countries[0].ISOCode)
	assert.Equal(t, "KES", wb.Countries[0].Currency)
	assert.Equal(t, model.DocumentScopeVendor, wb.DocumentTypes[1].Scope)

	summary, err := importWorkbook(testDB, wb)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Countries)
	assert.Equal(t, 3, summary.DocumentTypeVendorTypes)

	var kenya model.Country
	require.NoError(t, testDB.Where("iso_code = ?", "KE").First(&kenya).Error)

	var links []model.DocumentTypeVendorTypeConfig
	require.NoError(t, testDB.Order("id ASC").Find(&links).Error)
	require.Len(t, links, 3)
	require.NotNil(t, links[0].IsRequired)
	assert.True(t, *links[0].IsRequired)
	assert.True(t, *links[1].IsRequired)
	assert.Nil(t, links[2].IsRequired)

	t.Run("re-import is idempotent", func(t *testing.T) {
		_, err := importWorkbook(testDB, wb)
		require.NoError(t, err)

		var count int64
		testDB.Model(&model.DocumentTypeConfig{}).Count(&count)
		assert.Equal(t, int64(3), count)
		testDB.Model(&model.DocumentTypeVendorTypeConfig{}).Count(&count)
		assert.Equal(t, int64(3), count)
	})

	t.Run("re-import updates flags", func(t *testing.T) {
		optional := false
		wb.DocumentTypeVendorTypes[0].IsRequired = &optional
		wb.Countries[1].Status = model.RecordStatusActive

		_, err := importWorkbook(testDB, wb)
		require.NoError(t, err)

		var link model.DocumentTypeVendorTypeConfig
		require.NoError(t, testDB.First(&link, links[0].ID).Error)
		require.NotNil(t, link.IsRequired)
		assert.False(t, *link.IsRequired)

		var uganda model.Country
		require.NoError(t, testDB.Where("iso_code = ?", "UG").First(&uganda).Error)
		assert.Equal(t, model.RecordStatusActive, uganda.Status)
	})
}

func TestImportWorkbook_RollsBackOnUnknownReference(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	wb := &Workbook{
		Countries: []countryRow{{ISOCode: "KE", Name: "Kenya", Currency: "KES", Status: model.RecordStatusActive}},
		VendorTypeCountries: []vendorTypeCountryRow{
			{VendorTypeCode: "FOOD_TRUCK", CountryISO: "KE", Status: model.RecordStatusActive},
		},
	}

	_, err = importWorkbook(testDB, wb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOOD_TRUCK")

	var count int64
	testDB.Model(&model.Country{}).Count(&count)
	assert.Zero(t, count)
}

func TestReadSheet_Validation(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	writeSheet(t, f, sheetCountries, [][]interface{}{
		{"iso_code", "name"},
		{"KE", "Kenya"},
	})
	_, err := parseWorkbook(f)
	assert.ErrorContains(t, err, `missing column "currency"`)

	g := excelize.NewFile()
	defer g.Close()
	writeSheet(t, g, sheetCountries, [][]interface{}{
		{"iso_code", "name", "currency"},
		{"KE", "", "KES"},
	})
	_, err = parseWorkbook(g)
	assert.ErrorContains(t, err, "row 2: name is empty")
}

func TestParseOptionalBool(t *testing.T) {
	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "TRUE", want: boolValue(true)},
		{in: "no", want: boolValue(false)},
		{in: "0", want: boolValue(false)},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOptionalBool(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func boolValue(b bool) *bool {
	return &b
}
