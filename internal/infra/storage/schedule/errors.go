package schedule

import "errors"

var (
	// ErrBusinessHoursNotFound возвращается, когда запись часов работы не найдена
	ErrBusinessHoursNotFound = errors.New("schedule.repository: business hours not found")

	// ErrExceptionNotFound возвращается, когда исключение из расписания не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: availability exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
