package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLogger points InfoLogger at stdout and ErrorLogger at stderr. level
// is a logrus level name; an empty or unknown value means info.
func InitLogger(level ...string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	infoLevel := logrus.InfoLevel
	if len(level) > 0 {
		if parsed, err := logrus.ParseLevel(level[0]); err == nil {
			infoLevel = parsed
		}
	}
	InfoLogger.SetLevel(infoLevel)
}
