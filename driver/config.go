package driver

import (
	"os"
	"time"

	"github.com/baetyl/baetyl-go/v2/errors"
	"github.com/baetyl/baetyl-go/v2/utils"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Engine   EngineConfig  `yaml:"engine" json:"engine"`
	Interval time.Duration `yaml:"interval" json:"interval" default:"15s"`
	Points   []Point       `yaml:"points" json:"points"`
}

type EngineConfig struct {
	Address string `yaml:"address" json:"address"`
	Port    int    `yaml:"port" json:"port"`
}

//Point is one periodically polled read specification
type Point struct {
	Name string `yaml:"name" json:"name"`
	Spec string `yaml:"spec" json:"spec"`
	//Multiple selects the readPropertyMultiple form
	Multiple bool `yaml:"multiple,omitempty" json:"multiple,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Trace(err)
	}
	if err := utils.SetDefaults(cfg); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}
