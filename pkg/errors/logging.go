package errors

import (
	"go.uber.org/zap"
)

// LogError writes err as a structured log entry. For an AppError the code
// and the caller-facing message are added, so a log line can be matched
// with what the browser was shown.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	all := append(make([]zap.Field, 0, len(fields)+3), zap.Error(err))

	var appErr *AppError
	if As(err, &appErr) {
		all = append(all,
			zap.String("error_code", appErr.Code()),
			zap.String("error_message", appErr.Message()))
	}

	logger.Error(msg, append(all, fields...)...)
}
