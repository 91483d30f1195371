// Package logger builds slog loggers with per-environment presets and
// attributes pulled from the request context.
//
// New returns a JSON logger at info level unless options say otherwise.
// WithDevelopment, WithStaging and WithProduction set level and format and
// tag records with service and env. NewFromConfig does the same from
// APP_ENV, SERVICE_NAME, LOG_LEVEL and LOG_FORMAT.
//
//	log, err := logger.NewFromConfig(cfg, logger.WithContextExtractors(
//	    environment.LoggerExtractor(),
//	    requestid.LoggerExtractor(),
//	))
//	log.InfoContext(ctx, "session store ready", logger.Store("redis"))
//
// Attribute helpers such as Store, Component and Event keep key names the
// same across packages. Error and Errors return an empty attribute for nil
// errors, so they can be passed unconditionally.
package logger
