package lock

import (
	"context"

	"github.com/im7mortal/kmutex"
)

// LocalSlotLocker locks slots within one process.
type LocalSlotLocker struct {
	km *kmutex.Kmutex
}

func NewLocalSlotLocker() *LocalSlotLocker {
	return &LocalSlotLocker{km: kmutex.New()}
}

func (l *LocalSlotLocker) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.km.Lock(key)
	return func() { l.km.Unlock(key) }, nil
}
