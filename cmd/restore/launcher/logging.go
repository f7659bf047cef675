package launcher

import (
	"io"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// verbosityLevels maps --log.verbosity to logrus levels.
var verbosityLevels = [...]logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// sentryLevels are forwarded to Sentry when a DSN is configured.
var sentryLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
}

// newLogger builds the command logger. Logs go to out so that stdout stays
// reserved for restored blocks.
func newLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	if cfg.Verbosity < 0 || cfg.Verbosity >= len(verbosityLevels) {
		return nil, errors.Errorf("log verbosity %d out of range 0..%d", cfg.Verbosity, len(verbosityLevels)-1)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(verbosityLevels[cfg.Verbosity])

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, sentryLevels)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create sentry hook")
		}
		hook.Timeout = 5 * time.Second
		logger.AddHook(hook)
	}
	return logger, nil
}
