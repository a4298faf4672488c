package metrics

import "errors"

var (
	// ErrNamespaceRequired возвращается если не указан namespace метрик.
	ErrNamespaceRequired = errors.New("metrics namespace is required")

	// ErrJobNameRequired возвращается если не указано имя job при заданном Pushgateway.
	ErrJobNameRequired = errors.New("job name is required")

	// ErrInvalidTimeout возвращается если указан невалидный таймаут.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrPushgatewayURLInvalid возвращается если URL Pushgateway имеет невалидный формат.
	ErrPushgatewayURLInvalid = errors.New("pushgateway URL has invalid format")
)
