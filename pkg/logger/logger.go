// Package logger configura zerolog para la API: consola legible en
// desarrollo, JSON en producción y un campo service fijo para agregación.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env     string // development -> consola legible; otro valor -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // estampado en cada línea si no está vacío
}

// Logger envuelve zerolog para inyectarlo y fijar la configuración en un
// solo lugar.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger y lo instala también como logger global de zerolog,
// que es el que usan los paquetes internos vía rs/zerolog/log.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// Debug, Info, Warn, Error y Fatal delegan en zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// PrintfAdapter adapta el logger a librerías que esperan una interfaz tipo
// Printf (por ejemplo el scheduler de cron).
type PrintfAdapter struct {
	zl zerolog.Logger
}

// Printf registra el mensaje formateado en nivel info.
func (a *PrintfAdapter) Printf(format string, args ...any) {
	a.zl.Info().Msgf(format, args...)
}

// NewPrintfAdapter crea el adaptador sobre el logger dado.
func NewPrintfAdapter(l *Logger) *PrintfAdapter {
	return &PrintfAdapter{zl: l.zl}
}
