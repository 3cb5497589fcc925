package config

import (
	"github.com/tarikcelik1/microservice-personnel-management/library/pg"
	"github.com/tarikcelik1/microservice-personnel-management/library/yamlenv"
)

type Config struct {
	Postgres        pg.PostgresConfig  `yaml:"postgres"`
	Kafka           KafkaConfig        `yaml:"kafka"`
	PersonelAPI     ApiConfig          `yaml:"personelAPI"`
	NotificationAPI ApiConfig          `yaml:"notificationAPI"`
	SMTP            SMTPConfig         `yaml:"smtp"`
	Notification    NotificationConfig `yaml:"notification"`
}

type KafkaConfig struct {
	Bootstrap        *yamlenv.Env[string] `yaml:"bootstrap"`
	ProducerClientID *yamlenv.Env[string] `yaml:"producer_client_id"`
	Topic            *yamlenv.Env[string] `yaml:"topic"`
	RoutingKey       *yamlenv.Env[string] `yaml:"routing_key"`
	ConsumerGroup    *yamlenv.Env[string] `yaml:"consumer_group"`
}

type ApiConfig struct {
	Port *yamlenv.Env[int] `yaml:"port"`
}

type SMTPConfig struct {
	Host          *yamlenv.Env[string] `yaml:"host"`
	Port          *yamlenv.Env[int]    `yaml:"port"`
	Username      *yamlenv.Env[string] `yaml:"username"`
	Password      *yamlenv.Env[string] `yaml:"password"`
	From          *yamlenv.Env[string] `yaml:"from"`
	SkipTLSVerify *yamlenv.Env[bool]   `yaml:"skip_tls_verify"`
}

type NotificationConfig struct {
	HREmail *yamlenv.Env[string] `yaml:"hr_email"`
}
