package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/server"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   server.Config `envconfig:"STATS"`
	Database postgres.DB   `envconfig:"STATS"`
	Health   health.Config
	Auth     auth.Config
	Kafka    kafka.Config
	Log      logger.Log
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Server and database variables are
// looked up with a STATS_ prefix first (STATS_HTTP_PORT, STATS_DB_NAME), then
// without it.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Auth.Secret == "" {
			log.Fatal("NewConfig ", "JWT_SECRET is required")
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
