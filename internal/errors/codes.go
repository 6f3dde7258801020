package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 클라이언트는 이 코드를 기준으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"        // 접근 권한 없음
	AuthzAccessDenied   = "AUTHZ_ACCESS_DENIED"    // 다른 사용자의 리소스
	AuthzTenantNotFound = "AUTHZ_TENANT_NOT_FOUND" // 테넌트 정보 없음

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 입점 신청서 (APPLICATION_) ====================
	ApplicationNotFound             = "APPLICATION_NOT_FOUND"              // 신청서 없음
	ApplicationAlreadyExists        = "APPLICATION_ALREADY_EXISTS"         // 사용자당 하나
	ApplicationLocked               = "APPLICATION_LOCKED"                 // 제출 이후 수정 불가
	ApplicationCountryImmutable     = "APPLICATION_COUNTRY_IMMUTABLE"      // 국가 변경 불가
	ApplicationCountryNotEligible   = "APPLICATION_COUNTRY_NOT_ELIGIBLE"   // 입점 불가 국가
	ApplicationVendorTypeIneligible = "APPLICATION_VENDOR_TYPE_INELIGIBLE" // 국가에서 허용되지 않는 업종
	ApplicationMissingFields        = "APPLICATION_MISSING_FIELDS"         // 필수 정보 누락
	ApplicationIncompleteDocuments  = "APPLICATION_INCOMPLETE_DOCUMENTS"   // 필수 서류 미제출
	ApplicationInvalidTransition    = "APPLICATION_INVALID_TRANSITION"     // 허용되지 않는 상태 변경
	ApplicationInvalidReview        = "APPLICATION_INVALID_REVIEW"         // 잘못된 심사 결과

	// ==================== 서류 (DOCUMENT_) ====================
	DocumentNotFound          = "DOCUMENT_NOT_FOUND"           // 서류 없음
	DocumentTypeNotAllowed    = "DOCUMENT_TYPE_NOT_ALLOWED"    // 신청서에 허용되지 않는 서류 종류
	DocumentInvalidStorageKey = "DOCUMENT_INVALID_STORAGE_KEY" // 슬롯 밖의 저장 키
	DocumentObjectNotUploaded = "DOCUMENT_OBJECT_NOT_UPLOADED" // 스토리지에 파일 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 URL 발급 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 서비스 오류
)
