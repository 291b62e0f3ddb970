package middleware

import "time"

// HTTPMetrics интерфейс сборщика HTTP метрик
type HTTPMetrics interface {
	ObserveHTTP(route, action, method, code string, elapsed time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
