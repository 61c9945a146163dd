package repository

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey carries the open transaction through the context so a
// service can span several repositories with one transaction without
// threading *gorm.DB through every call.
type txContextKey struct{}

// TransactionManager runs a function inside a single database transaction.
// Claim transitions use it to make the status guard and the writes atomic.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type gormTransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

func (m *gormTransactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// GetDB returns the transaction opened by RunInTx when ctx carries one,
// falling back to the root connection for standalone reads.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return rootDB.WithContext(ctx)
}
