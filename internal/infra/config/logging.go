package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogging deja logrus con timestamps completos y el nivel de LOG_LEVEL.
// En Lambda (sin TTY) sale en JSON para CloudWatch.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(lvl)
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.SetFormatter(&log.JSONFormatter{})
		return nil
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
