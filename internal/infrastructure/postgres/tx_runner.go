package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baisoft/marketplace-api/internal/application/usecase"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada mutación de producto es un read-modify-write atómico: se abre tx, se
// lee con FOR UPDATE, se muta y se hace Commit (o Rollback ante error).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunProduct inicia una transacción, ejecuta fn con un ProductRepository atado
// a la tx y hace Commit o Rollback.
func (r *TxRunner) RunProduct(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
