package main

import (
	"log"

	"phishsafe/config"
	"phishsafe/launch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := launch.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
