package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// SimpleLogger é uma implementação simples de Logger
type SimpleLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	warnLogger  *log.Logger
	debug       bool
}

// NewLogger cria uma nova instância de Logger.
// Mensagens de debug só são emitidas quando LOG_LEVEL=debug.
func NewLogger() Logger {
	return NewLoggerWithWriters(os.Stdout, os.Stderr, strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"))
}

// NewLoggerWithWriters cria um Logger escrevendo nos destinos informados
func NewLoggerWithWriters(out, errOut io.Writer, debug bool) *SimpleLogger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &SimpleLogger{
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
		warnLogger:  log.New(out, "WARN: ", flags),
		debug:       debug,
	}
}

// Info registra uma mensagem de informação
func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.infoLogger.Println(format(msg, keysAndValues))
}

// Error registra uma mensagem de erro
func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.errorLogger.Println(format(msg, keysAndValues))
}

// Debug registra uma mensagem de debug
func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}
	l.debugLogger.Println(format(msg, keysAndValues))
}

// Warn registra uma mensagem de aviso
func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.warnLogger.Println(format(msg, keysAndValues))
}

// format concatena a mensagem com os pares chave=valor.
// Uma chave sem valor é registrada com valor "(MISSING)".
func format(msg string, keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		var value interface{} = "(MISSING)"
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		fmt.Fprintf(&b, " %s=%v", key, value)
	}
	return b.String()
}

type nopLogger struct{}

// NewNopLogger retorna um Logger que descarta todas as mensagens
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
