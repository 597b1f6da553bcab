package bunrepo

import (
	"context"

	"github.com/uptrace/bun"
)

type txKey struct{}

// ContextWithTx stamps the transaction into the context so repository calls
// made inside a batch run against it instead of the pooled DB.
func ContextWithTx(ctx context.Context, tx bun.IDB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// InTransaction reports whether the context already carries a transaction.
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(bun.IDB)
	return ok && tx != nil
}

// connFromContext returns the active transaction when present, the fallback
// connection otherwise.
func connFromContext(ctx context.Context, fallback bun.IDB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.IDB); ok && tx != nil {
		return tx
	}
	return fallback
}
