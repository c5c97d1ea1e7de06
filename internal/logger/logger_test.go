package logger

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
)

func TestLoggerWritesLevelAndArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), config.Config{})

	l.Info("started")
	l.Error("saving chamada", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "[info] started")
	assert.Contains(t, out, "[error] saving chamada boom")
	assert.False(t, l.rollbar)
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Warn("ignored")
		l.Flush()
	})
}
