package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLoggerFormatsKeyValues(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(&out, &errOut, false)

	l.Info("execução MRP concluída", "materials", 3, "recommendations", 1)
	l.Error("falha ao consultar provedor", "document_id", "abc", "error")
	l.Debug("não deve aparecer")

	assert.Contains(t, out.String(), "INFO: ")
	assert.Contains(t, out.String(), "execução MRP concluída materials=3 recommendations=1")
	assert.NotContains(t, out.String(), "não deve aparecer")
	assert.Contains(t, errOut.String(), "document_id=abc error=(MISSING)")
}

func TestSimpleLoggerDebugEnabled(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerWithWriters(&out, &out, true)

	l.Debug("regras carregadas", "count", 2)

	assert.Contains(t, out.String(), "DEBUG: ")
	assert.Contains(t, out.String(), "regras carregadas count=2")
}
