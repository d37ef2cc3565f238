package logger

import (
	"io"
	"os"
	"time"

	"github.com/meikuraledutech/routenet/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger from cfg and returns it.
// With a LogFile set, output goes to a rotating file instead of stdout.
func Setup(cfg *config.Config) *logrus.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
	}

	log := logrus.StandardLogger()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	log.SetLevel(cfg.LogLevel)
	return log
}
