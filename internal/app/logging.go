package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging настраивает стандартный logrus logger: текстовый формат с полными метками времени.
func ConfigureLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(lvl)
	return nil
}
