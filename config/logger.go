package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"fontpack/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// levelOf maps configured level name to zap level. "none" and unknown names
// disable the logger.
func levelOf(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

// Prepare builds program logger: errors go to stderr, everything else
// enabled goes to stdout, and file log gets its own level. With report
// present file log is always at debug level and overwritten, and both logs
// are added to report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	fileConf := conf.FileLogger
	if rpt != nil {
		fileConf.Level, fileConf.Mode = "debug", "overwrite"
	}

	file, redirected, err := fileConf.core(rpt)
	if err != nil {
		return nil, err
	}
	errCore, outCore := conf.ConsoleLogger.consoleCores()

	log := zap.New(zapcore.NewTee(errCore, outCore, file), zap.AddCaller())
	if redirected != "" {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

func (conf LoggerConfig) consoleCores() (stderr, stdout zapcore.Core) {
	lowest, ok := levelOf(conf.Level)
	if !ok {
		return zapcore.NewNopCore(), zapcore.NewNopCore()
	}

	stderr = zapcore.NewCore(
		consoleEnc{zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stderr))},
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel }))
	stdout = zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lowest && l < zapcore.ErrorLevel }))
	return stderr, stdout
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return ec
}

func openLogFile(name, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == "append" {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.OpenFile(name, flags, 0644)
}

// capturePanics points runtime crash output to a panic log next to the file
// log, or to a temporary file.
func (conf LoggerConfig) capturePanics(rpt *Report) {
	name := filepath.Join(filepath.Dir(conf.Destination), misc.GetAppName()+"-panic.log")
	f, err := openLogFile(name, conf.Mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer f.Close()
	debug.SetCrashOutput(f, debug.CrashOptions{})
	rpt.Store("panic.log", f.Name())
}

// core returns file logging core. When destination cannot be opened log goes
// to a temporary file whose name is returned.
func (conf LoggerConfig) core(rpt *Report) (zapcore.Core, string, error) {
	level, ok := levelOf(conf.Level)
	if !ok {
		return zapcore.NewNopCore(), "", nil
	}
	conf.capturePanics(rpt)

	redirected := ""
	f, err := openLogFile(conf.Destination, conf.Mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.Destination, err)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(level)), redirected, nil
}

// consoleEnc drops verbose error formatting from console output.
type consoleEnc struct {
	zapcore.Encoder
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	plain := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if err, ok := f.Interface.(error); ok && f.Type == zapcore.ErrorType {
			f.Interface = errors.New(err.Error())
		}
		plain[i] = f
	}
	return c.Encoder.EncodeEntry(ent, plain)
}
