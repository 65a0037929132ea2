// Package utils provides named logrus loggers with console and JSON
// formatters, an optional rotating file sink, and environment helpers.
package utils
