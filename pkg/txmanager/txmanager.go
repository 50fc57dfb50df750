package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/RC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/RC-BookingService/pkg/metrics"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 10 * time.Millisecond
)

// Коды ошибок postgres, после которых транзакцию можно повторить
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// ErrSerializationConflict возвращается, когда все попытки транзакции завершились serialization failure / deadlock
// Исходная ошибка драйвера остается в цепочке
var ErrSerializationConflict = errors.New("txmanager: serialization conflict, retries exhausted")

// TxBeginner начинает транзакции (реализуется *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager управляет транзакциями, передавая их через контекст
// Повторяет транзакцию при serialization failure / deadlock
type TransactionManager struct {
	db          TxBeginner
	metrics     *metrics.Metrics
	maxAttempts int
	retryDelay  time.Duration
}

// Option настройка TransactionManager
type Option func(*TransactionManager)

// WithMetrics включает метрики транзакций
func WithMetrics(m *metrics.Metrics) Option {
	return func(tm *TransactionManager) {
		tm.metrics = m
	}
}

// WithRetries задает количество попыток и паузу между ними
func WithRetries(maxAttempts int, delay time.Duration) Option {
	return func(tm *TransactionManager) {
		if maxAttempts > 0 {
			tm.maxAttempts = maxAttempts
		}
		tm.retryDelay = delay
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	tm := &TransactionManager{
		db:          db,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Do выполняет fn в транзакции READ COMMITTED
func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, "read_committed", fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// Используется для операций, где важна защита от гонок (создание бронирования)
func (tm *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, "serializable", fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (tm *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, "read_only", fn)
}

func (tm *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, isolation string, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= tm.maxAttempts; attempt++ {
		err = tm.runOnce(ctx, opts, fn)
		tm.metrics.ObserveTransaction(isolation, err)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == tm.maxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrSerializationConflict, attempt, err)
		}

		tm.metrics.ObserveTxRetry(isolation)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tm.retryDelay * time.Duration(attempt)):
		}
	}
	return err
}

func (tm *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit: %w", err)
	}
	return nil
}

// IsRetryable проверяет, что ошибка вызвана конфликтом сериализации
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}
	// Репозитории могут терять цепочку ошибок драйвера
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") || strings.Contains(msg, "deadlock detected")
}
