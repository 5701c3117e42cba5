package application

import "context"

// AppLogger is the logging port every adapter and handler writes to.
// Implementations live in pkg/infrastructure (zap).
type AppLogger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
	Trace(ctx context.Context, msg string, fields map[string]interface{})
}

// LogError copies the fields and attaches the error before logging, so
// callers can pass a shared fields map without it being mutated.
func LogError(ctx context.Context, logger AppLogger, message string, err error, fields map[string]interface{}) {
	logData := cloneFields(fields)
	if err != nil {
		logData["error"] = err
	}
	logger.Error(ctx, message, logData)
}

func LogInfo(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Info(ctx, message, cloneFields(fields))
}

func LogDebug(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Debug(ctx, message, cloneFields(fields))
}

func LogTrace(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Trace(ctx, message, cloneFields(fields))
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	logData := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		logData[k] = v
	}
	return logData
}
