package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 예상하지 못한 에러(주로 DB/스토리지)를 코드와 메시지로 변환
// 내부 정보는 숨기고, 사용자가 조치할 수 있는 정보만 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. 제약 조건 위반 (postgres / sqlite)
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced data does not exist",
		}
	}
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required value is missing",
		}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A dependent service is unavailable, please try again later",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	// 사용자당 신청서 하나
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "idx_vendor_applications_user_id") {
		return ErrorInfo{
			Code:    ApplicationAlreadyExists,
			Message: "A vendor application already exists for this account",
		}
	}

	// 슬롯당 활성 서류 하나
	if strings.Contains(errLower, "idx_vendor_documents_active_slot") || strings.Contains(errLower, "vendor_documents") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This document was updated at the same time, please retry",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "application") {
		return "Vendor application not found"
	}
	if strings.Contains(contextLower, "document") {
		return "Document not found"
	}
	if strings.Contains(contextLower, "country") {
		return "Country not found"
	}

	return "The requested data was not found"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create, please try again later"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "submit") {
		return "Failed to save changes, please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete, please try again later"
	}
	if strings.Contains(contextLower, "upload") {
		return "Failed to prepare the upload, please try again later"
	}

	return "Something went wrong, please try again later"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
