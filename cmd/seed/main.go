package main

import (
	"fmt"
	"os"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/db"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/seed/main.go <xlsx_file_path>")
		os.Exit(2)
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	workbook, err := readWorkbook(filePath)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}

	fmt.Printf("Countries: %d, vendor types: %d, country links: %d, document types: %d, document links: %d\n",
		len(workbook.Countries),
		len(workbook.VendorTypes),
		len(workbook.VendorTypeCountries),
		len(workbook.DocumentTypes),
		len(workbook.DocumentTypeVendorTypes),
	)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	summary, err := importWorkbook(db.GetDB(), workbook)
	if err != nil {
		logger.Fatal("Failed to import reference data", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Countries: %d\n", summary.Countries)
	fmt.Printf("  Vendor types: %d\n", summary.VendorTypes)
	fmt.Printf("  Vendor type countries: %d\n", summary.VendorTypeCountries)
	fmt.Printf("  Document types: %d\n", summary.DocumentTypes)
	fmt.Printf("  Document type vendor types: %d\n", summary.DocumentTypeVendorTypes)
}
