package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/library-rental/stats/app"
	"github.com/Astemirdum/library-rental/stats/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.InfoLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("stats: ", err)
	}
}
