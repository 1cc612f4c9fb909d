package main

type config struct {
	API              apiConfig              `yaml:"api"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	Jaeger           jaegerConfig           `yaml:"jaeger"`
	Storage          storageConfig          `yaml:"storage"`
	Kafka            kafkaConfig            `yaml:"kafka"`
}

type apiConfig struct {
	Port int `yaml:"port"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

type jaegerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type storageConfig struct {
	Backend string      `yaml:"backend"`
	Redis   redisConfig `yaml:"redis"`
	MySQL   mysqlConfig `yaml:"mysql"`
}

type redisConfig struct {
	Address string `yaml:"address"`
}

type mysqlConfig struct {
	DSN string `yaml:"dsn"`
}

type kafkaConfig struct {
	Address string `yaml:"address"`
	Topic   string `yaml:"topic"`
	GroupID string `yaml:"groupId"`
}
