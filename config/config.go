package config

import (
	"os"

	"github.com/anyproto/any-sync/app"
	"gopkg.in/yaml.v3"

	"github.com/pushmesh/pushmesh/db"
	"github.com/pushmesh/pushmesh/metric"
	"github.com/pushmesh/pushmesh/redisprovider"
	"github.com/pushmesh/pushmesh/relay"
	"github.com/pushmesh/pushmesh/relay/provider/fcm"
	"github.com/pushmesh/pushmesh/transport/redistransport"
)

const CName = "config"

func NewFromFile(path string) (c *Config, err error) {
	c = &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return
}

type Config struct {
	Mongo     db.Mongo              `yaml:"mongo"`
	Redis     redisprovider.Config  `yaml:"redis"`
	Metric    metric.Config         `yaml:"metric"`
	FCM       fcm.Config            `yaml:"fcm"`
	Relay     relay.Config          `yaml:"relay"`
	Transport redistransport.Config `yaml:"transport"`
}

func (c *Config) Init(a *app.App) (err error) {
	return nil
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetMongo() db.Mongo {
	return c.Mongo
}

func (c *Config) GetRedis() redisprovider.Config {
	return c.Redis
}

func (c *Config) GetMetric() metric.Config {
	return c.Metric
}

func (c *Config) GetFCM() fcm.Config {
	return c.FCM
}

func (c *Config) GetRelay() relay.Config {
	return c.Relay
}

func (c *Config) GetTransport() redistransport.Config {
	return c.Transport
}
