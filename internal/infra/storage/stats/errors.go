package stats

import "errors"

// ErrQuery возвращается при ошибке выполнения аналитического запроса
var ErrQuery = errors.New("stats.repository: query failed")
