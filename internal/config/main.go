package config

import "fmt"

type RunningEnvironment string

const (
	Development RunningEnvironment = "development"
	Production  RunningEnvironment = "production"
)

type Config struct {
	RunningEnvironment RunningEnvironment
	DebugMode          bool
	Server             ServerConfig
	Backend            BackendConfig
	Sessions           SessionConfig
	Redis              RedisConfig
	TokenEncryption    TokenEncryptionConfig
	Monitoring         MonitoringConfig
}

func (c *Config) Validate() error {
	if c.RunningEnvironment != Development && c.RunningEnvironment != Production {
		return fmt.Errorf("unknown running environment %q (must be one of development or production)", c.RunningEnvironment)
	}
	err := c.Server.Validate()
	if err != nil {
		return err
	}
	err = c.Backend.Validate()
	if err != nil {
		return err
	}
	err = c.Sessions.Validate()
	if err != nil {
		return err
	}
	err = c.Redis.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	err = c.TokenEncryption.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	return nil
}
