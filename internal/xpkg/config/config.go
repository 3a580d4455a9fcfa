package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB  *Postgres `yaml:"database"`
	RMQ *RabbitMQ `yaml:"rabbitmq"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cnf := &Config{}
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	if cnf.DB == nil || cnf.RMQ == nil {
		return nil, fmt.Errorf("config %s: database and rabbitmq sections are required", configPath)
	}

	// Secrets may come from the environment instead of the file.
	cnf.DB.Password = getEnv("CAFE_DB_PASSWORD", cnf.DB.Password)
	cnf.RMQ.Password = getEnv("CAFE_RMQ_PASSWORD", cnf.RMQ.Password)

	return cnf, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
