package discord

import (
	"time"

	log "github.com/sirupsen/logrus"
)

func step(label string) func() {
	start := time.Now()
	return func() { log.Debugf("[trace] %s = %s", label, time.Since(start)) }
}
