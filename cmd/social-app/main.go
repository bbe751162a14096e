package main

import (
	"os"

	"social-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()

	if err := newRootCmd(log).Execute(); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
