// Package lock serialises writes to a vendor document slot.
package lock

import (
	"context"
	"fmt"
)

// SlotLocker grants exclusive access to a key until the returned unlock is called.
type SlotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// SlotKey names the (application, document type) slot.
func SlotKey(applicationID, documentTypeID uint) string {
	return fmt.Sprintf("vendor-document-slot:%d:%d", applicationID, documentTypeID)
}
