package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil", nil, "", InternalServerError},
		{"record not found", gorm.ErrRecordNotFound, "get document", ResourceNotFound},
		{"translated duplicate", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), "create", ResourceAlreadyExists},
		{"postgres duplicate user", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_vendor_applications_user_id"`), "create application", ApplicationAlreadyExists},
		{"sqlite duplicate slot", fmt.Errorf("UNIQUE constraint failed: vendor_documents.application_id, vendor_documents.document_type_id"), "upsert", ResourceConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, "create", ResourceNotFound},
		{"connection", fmt.Errorf("dial tcp: connection refused"), "", InternalExternalAPI},
		{"unknown", fmt.Errorf("boom"), "update application", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}
