package logger

import (
	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger. It is usable before Init.
var Log = logrus.New()

// Init sets the level and output format. Format "text" is meant for local
// development; anything else logs JSON.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if format == "text" {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}
