package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sterrysx/gymai/pkg"
)

const sentryFlushTimeout = 2 * time.Second

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func flushes
// pending Sentry events and closes the log file, call it before exiting.
func Setup(params LoggerSetupParams) func() {
	logrus.SetLevel(GetLevel(params.LogLevel))
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	var closers []func()
	if params.SentryEnabled {
		if err := setupSentry(params); err != nil {
			logrus.Errorf("sentry init: %s", err)
		} else {
			closers = append(closers, func() {
				sentry.Flush(sentryFlushTimeout)
			})
		}
	}

	out, closeOut := logOutput(params)
	logrus.SetOutput(out)
	if closeOut != nil {
		closers = append(closers, closeOut)
	}

	return func() {
		for _, c := range closers {
			c()
		}
	}
}

func setupSentry(params LoggerSetupParams) error {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		return err
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Debugf("sentry enabled for %s", params.SentryServerName)
	return nil
}

// logOutput picks stdout, a rotated log file, or both.
func logOutput(params LoggerSetupParams) (io.Writer, func()) {
	if params.LogFileName == "" {
		return os.Stdout, nil
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	rotated := &lumberjack.Logger{
		Filename: fileName,
		MaxSize:  20, // megabytes
		Compress: true,
		// a year of weekly cycles
		MaxBackups: 52,
		MaxAge:     365, // days
	}
	closeFile := func() {
		_ = rotated.Close()
	}

	if params.LogToStdout {
		return pkg.NewTeeWriter(os.Stdout, rotated), closeFile
	}
	return rotated, closeFile
}

// GetLevel parses a logrus level name, falling back to trace.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
