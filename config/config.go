package config

import (
	"fmt"

	"oracle/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

const (
	defaultSchedule  = "@every 10m"
	defaultLocation  = "UTC"
	defaultRetention = 30
	defaultTimeout   = 10
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("ORACLE")
	if configFile != "" {
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return err
		}
	}

	defaults(config)
	return Validate(config)
}

func defaults(config *core.Config) {
	if config.Oracle.Store == "" {
		config.Oracle.Store = core.StoreSQL
	}

	if config.Chain.Timeout <= 0 {
		config.Chain.Timeout = defaultTimeout
	}

	if config.Worker.Schedule == "" {
		config.Worker.Schedule = defaultSchedule
	}

	if config.Worker.Location == "" {
		config.Worker.Location = defaultLocation
	}

	if config.Worker.Retention <= 0 {
		config.Worker.Retention = defaultRetention
	}
}

// Validate check the config values
func Validate(config *core.Config) error {
	if !govalidator.IsIn(config.Oracle.Store, core.StoreSQL, core.StoreMemory) {
		return fmt.Errorf("invalid oracle store %q", config.Oracle.Store)
	}

	if config.Chain.EndPoint != "" && !govalidator.IsURL(config.Chain.EndPoint) {
		return fmt.Errorf("invalid chain endpoint %q", config.Chain.EndPoint)
	}

	if config.Registry.File == "" {
		return fmt.Errorf("registry file not set")
	}

	return nil
}
