package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	// stdout belongs to the player
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
	})

	log.SetLevel(levelFromEnv())

	return log
}

func levelFromEnv() logrus.Level {
	if os.Getenv("DEBUG") == "1" {
		return logrus.DebugLevel
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("DOTREEL_LOG_LEVEL")); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

// SetLevel overrides the level picked from the environment.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}
