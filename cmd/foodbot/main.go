package main

import (
	"log"

	"github.com/m3rciful/foodbot/bot"
	corecmd "github.com/m3rciful/foodbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        bot.LoadConfig,
		Bootstrap:         bot.Bootstrap,
	})
	if err != nil {
		log.Fatalf("foodbot: %v", err)
	}
}
