package usecase

import (
	"context"

	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

// TxRunner contrato mínimo de transacciones que necesitan los casos de uso.
// Lo implementa postgres.TxRunner; la interfaz vive aquí para invertir la
// dependencia (los casos de uso no conocen pgx).
type TxRunner interface {
	// RunProduct ejecuta fn con un ProductRepository atado a una transacción;
	// commit si fn retorna nil, rollback en caso contrario.
	RunProduct(ctx context.Context, fn func(products repository.ProductRepository) error) error
}
