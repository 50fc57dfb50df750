package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/RC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/RC-BookingService/pkg/txmanager"
)

// sqlBeginner адаптирует *sql.DB к txmanager.TxBeginner
type sqlBeginner struct {
	db *sql.DB
}

func (b sqlBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dbmetrics.SqlTxWrapper(tx), nil
}

// NewTransactionManager менеджер транзакций поверх *sql.DB без сбора метрик
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(sqlBeginner{db: db})
}
