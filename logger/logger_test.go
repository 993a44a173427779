package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, charmlog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, charmlog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, charmlog.InfoLevel, ParseLevel("whatever"))
}

func TestLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf})

	log.With("request_id", "abc").Info("signup", "email", "jane@example.com")

	out := buf.String()
	assert.Contains(t, out, "signup")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "email=jane@example.com")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{JSON: true, Output: &buf})

	log.Warn("slow", "ms", 12)

	assert.Contains(t, buf.String(), `"msg":"slow"`)
	assert.Contains(t, buf.String(), `"ms":12`)
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "error", Output: &buf})

	log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(New(Config{Level: "debug", Output: &buf}), gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "query failed")
	assert.Contains(t, buf.String(), "SELECT 1")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 1 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}
