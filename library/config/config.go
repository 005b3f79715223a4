package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/Astemirdum/library-rental/library/internal/sweeper"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/Astemirdum/library-rental/pkg/mongodb"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/s3"
	"github.com/Astemirdum/library-rental/pkg/server"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Admin is the account ensured at startup. It is skipped when Email is empty.
type Admin struct {
	Name     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD" json:"-"`
}

type Config struct {
	Server      server.Config
	StoreDriver string `envconfig:"STORE_DRIVER"`
	Database    postgres.DB
	Mongo       mongodb.Config
	Health      health.Config
	Auth        auth.Config
	Admin       Admin
	Sweeper     sweeper.Config
	Kafka       kafka.Config
	S3          s3.Config
	Log         logger.Log
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
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
		if err = config.validate(); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "":
		c.StoreDriver = DriverPostgres
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, c.StoreDriver)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
