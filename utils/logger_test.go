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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		" DEBUG ": logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestLog4jColorFormatter(t *testing.T) {
	color.NoColor = true
	f := &Log4jColorFormatter{LoggerName: "GENERATOR", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "created repository",
		Data:    logrus.Fields{"path": "app/Repositories/PostRepository.go", "model": "Post"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "2025-01-02 15:04:05.000")
	assert.Contains(t, line, "   INFO")
	assert.Contains(t, line, "[ GENERATOR]")
	assert.Contains(t, line, "created repository model=Post path=app/Repositories/PostRepository.go")
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"error": errors.New("boom")},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "DATABASE", rec["logger"])
	assert.Equal(t, "slow query", rec["message"])
	assert.Equal(t, map[string]any{"error": "boom"}, rec["fields"])
}

func TestNewLoggerIsNamedSingleton(t *testing.T) {
	a := NewLogger("SINGLETON")
	b := NewLogger("SINGLETON")
	assert.Same(t, a, b)
	assert.True(t, SetLoggerLevel("SINGLETON", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("NOPE", "error"))
}

func TestConfigureLoggingWritesFileSink(t *testing.T) {
	var console bytes.Buffer
	SetConsoleOutput(&console)
	logFile := filepath.Join(t.TempDir(), "reposmith.log")

	require.NoError(t, ConfigureLogging(LogOptions{Level: "debug", Filename: logFile, MaxSize: 1}))
	t.Cleanup(func() {
		_ = ConfigureLogging(LogOptions{Level: "info"})
		SetConsoleOutput(os.Stderr)
	})

	l := NewLogger("FILESINK")
	l.Debug("written to both sinks")
	require.NoError(t, CloseLogging())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written to both sinks"`)
	assert.Contains(t, console.String(), "written to both sinks")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("REPOSMITH_TEST_STRING", "value")
	t.Setenv("REPOSMITH_TEST_BOOL", "not-a-bool")

	assert.Equal(t, "value", EnvDefaultString("REPOSMITH_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("REPOSMITH_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("REPOSMITH_TEST_BOOL", true))
	assert.False(t, EnvDefaultBool("REPOSMITH_TEST_UNSET", false))
}

func TestDefaultLogOptions(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FILE_LOG_ENABLED", "")
	opts := DefaultLogOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.Empty(t, opts.Filename)
	assert.True(t, opts.Compress)

	t.Setenv("FILE_LOG_ENABLED", "true")
	t.Setenv("FILE_LOG_COMPRESS", "false")
	opts = DefaultLogOptions()
	assert.Equal(t, DefaultLogFilename, opts.Filename)
	assert.False(t, opts.Compress)
	assert.Empty(t, consoleOptions(opts).Filename)

	t.Setenv("FILE_LOG_NAME", "custom.log")
	assert.Equal(t, "custom.log", DefaultLogOptions().Filename)
}
