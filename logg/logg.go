/*
 * logg.go, part of gostar
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package logg gives the rest of gostar a small structured logger.
//It writes human-readable lines to stderr and, when asked, a copy to a
//file alongside the analysis output.
package logg

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging handle passed around gostar. The zero value is
// not usable; get one from New or Nop.
type Logger struct {
	s *zap.SugaredLogger
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// New returns a Logger named name writing to stderr. If path is not
// empty, lines are also appended to that file. A file that cannot be
// opened is reported on stderr and otherwise ignored.
func New(name, path string) *Logger {
	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel),
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			os.Stderr.WriteString("logg: cannot open log file " + path + ": " + err.Error() + "\n")
		} else {
			cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(f), zapcore.InfoLevel))
		}
	}
	z := zap.New(zapcore.NewTee(cores...)).Named(name)
	return &Logger{s: z.Sugar()}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Infof(format string, a ...interface{})  { l.s.Infof(format, a...) }
func (l *Logger) Warnf(format string, a ...interface{})  { l.s.Warnf(format, a...) }
func (l *Logger) Errorf(format string, a ...interface{}) { l.s.Errorf(format, a...) }

// Sync flushes buffered log entries.
func (l *Logger) Sync() { _ = l.s.Sync() }
