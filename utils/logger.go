/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger = logrus.Logger

// LogOptions configures every logger created by NewLogger.
type LogOptions struct {
	Level      string // trace, debug, info, warn, error
	Format     string // text or json
	Filename   string // empty disables the file sink
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}

	logOptions = consoleOptions(DefaultLogOptions())
	consoleOut io.Writer = os.Stderr
	fileSink   io.WriteCloser
)

// DefaultLogFilename is the log file used when FILE_LOG_ENABLED is set
// without FILE_LOG_NAME.
const DefaultLogFilename = "reposmith.log"

// DefaultLogOptions reads the logging defaults from the environment:
// LOG_LEVEL, CONSOLE_LOG_FORMAT, and FILE_LOG_ENABLED with FILE_LOG_NAME and
// FILE_LOG_COMPRESS for the file sink.
func DefaultLogOptions() LogOptions {
	opts := LogOptions{
		Level:      EnvDefaultString("LOG_LEVEL", "info"),
		Format:     EnvDefaultString("CONSOLE_LOG_FORMAT", "text"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   EnvDefaultBool("FILE_LOG_COMPRESS", true),
	}
	if EnvDefaultBool("FILE_LOG_ENABLED", false) {
		opts.Filename = EnvDefaultString("FILE_LOG_NAME", DefaultLogFilename)
	}
	return opts
}

// consoleOptions drops the file sink; it is only opened by ConfigureLogging.
func consoleOptions(opts LogOptions) LogOptions {
	opts.Filename = ""
	return opts
}

// ConfigureLogging replaces the logging options and re-applies them to the
// loggers already handed out.
func ConfigureLogging(opts LogOptions) error {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()

	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
	if strings.TrimSpace(opts.Filename) != "" {
		fileSink = &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
	}
	logOptions = opts
	for name, l := range loggerRegistry {
		setup(l, name)
	}
	return nil
}

// SetConsoleOutput redirects console output of all loggers, mainly for tests.
func SetConsoleOutput(w io.Writer) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	consoleOut = w
	for _, l := range loggerRegistry {
		l.SetOutput(w)
	}
}

// CloseLogging flushes and closes the file sink, if any.
func CloseLogging() error {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}

// NewLogger returns the named logger, creating it on first use.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if l, ok := loggerRegistry[name]; ok {
		return l
	}
	l := logrus.New()
	setup(l, name)
	loggerRegistry[name] = l
	return l
}

// setup must be called with loggerRegistryMu held.
func setup(l *logrus.Logger, name string) {
	l.SetOutput(consoleOut)
	l.SetLevel(ParseLogLevel(logOptions.Level))
	l.SetReportCaller(true)
	l.ReplaceHooks(make(logrus.LevelHooks))
	if strings.EqualFold(logOptions.Format, "json") {
		l.SetFormatter(&JSONLogFormatter{LoggerName: name})
	} else {
		l.SetFormatter(&Log4jColorFormatter{LoggerName: name, ColorCaller: true, NameWidth: 10})
	}
	if fileSink != nil {
		l.AddHook(&fileWriterHook{
			writer:    fileSink,
			formatter: &JSONLogFormatter{LoggerName: name},
		})
	}
}

type fileWriterHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileWriterHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}

func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLoggerLevel changes the level of a registered logger. It returns false
// when no logger with that name exists.
func SetLoggerLevel(name string, level string) bool {
	loggerRegistryMu.RLock()
	l, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	l.SetLevel(ParseLogLevel(level))
	return true
}
