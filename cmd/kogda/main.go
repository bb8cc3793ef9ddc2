// Команда kogda печатает фразы о датах в консоль.
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/cli"
)

func main() {
	if err := cli.New(os.Stdout, nil).Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Error("kogda")
		os.Exit(1)
	}
}
