package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	// Создаем буфер для захвата вывода
	var buf bytes.Buffer

	// Создаем логгер с уровнем DEBUG и нашим буфером
	logger := newWithOutput(DEBUG, &buf)

	// Тестируем все уровни
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message %d", 42)

	output := buf.String()

	for _, want := range []string{
		"[DEBUG] debug message",
		"[INFO] info message",
		"[WARN] warn message",
		"[ERROR] error message 42",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	// Логгер с уровнем ERROR пропускает только ошибки
	logger := newWithOutput(ERROR, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	if strings.Contains(output, "[DEBUG]") {
		t.Error("DEBUG message should be filtered out")
	}
	if strings.Contains(output, "[INFO]") {
		t.Error("INFO message should be filtered out")
	}
	if strings.Contains(output, "[WARN]") {
		t.Error("WARN message should be filtered out")
	}
	if !strings.Contains(output, "[ERROR] error message") {
		t.Error("ERROR message not found")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DEBUG},
		{"DEBUG", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"WARNING", WARN},
		{"error", ERROR},
		{"invalid", INFO}, // по умолчанию INFO
		{"", INFO},
	}

	for _, test := range tests {
		result := ParseLogLevel(test.input)
		if result != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	// Сохраняем оригинальный логгер
	originalLogger := globalLogger
	defer func() {
		globalLogger = originalLogger
	}()

	var buf bytes.Buffer
	globalLogger = newWithOutput(INFO, &buf)
	SetGlobalLevel(WARN)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	output := buf.String()

	if GetGlobalLevel() != WARN {
		t.Errorf("expected global level WARN, got %s", GetGlobalLevel())
	}
	if strings.Contains(output, "[INFO]") {
		t.Error("INFO message should be filtered out")
	}
	if !strings.Contains(output, "[WARN] warn message") {
		t.Error("WARN message not found")
	}
	if !strings.Contains(output, "[ERROR] error message") {
		t.Error("ERROR message not found")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(INFO, &buf)
	logger.SetJSON(true)

	logger.Info("forwarded %s", "GET")

	output := buf.String()
	if !strings.Contains(output, `"msg":"[INFO] forwarded GET"`) {
		t.Errorf("expected JSON encoded message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected level field, got: %s", output)
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %q, expected %q", test.level, result, test.expected)
		}
	}
}
