// Package config loads process configuration from a blog-mcp.yaml file
// and BLOG_MCP_ prefixed environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Contentful ContentfulConfig `mapstructure:"contentful"`
	Server     ServerConfig     `mapstructure:"server"`
	SSE        SSEConfig        `mapstructure:"sse"`
}

// ContentfulConfig points the executor at the backing GraphQL
// endpoint. Endpoint wins when set, otherwise it is derived from the
// space and environment.
type ContentfulConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	SpaceID     string `mapstructure:"space_id"`
	Environment string `mapstructure:"environment"`
	Token       string `mapstructure:"token"`
}

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	Endpoint string `mapstructure:"endpoint"`
}

type SSEConfig struct {
	KeepaliveInterval time.Duration `mapstructure:"keepalive_interval"`
	BufferSize        int           `mapstructure:"buffer_size"`
	ClientTimeout     time.Duration `mapstructure:"client_timeout"`
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys so AutomaticEnv picks them up
	// during Unmarshal.
	v.SetDefault("contentful.endpoint", "")
	v.SetDefault("contentful.space_id", "")
	v.SetDefault("contentful.token", "")
	v.SetDefault("contentful.environment", "master")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.endpoint", "/mcp")
	v.SetDefault("sse.keepalive_interval", 30*time.Second)
	v.SetDefault("sse.buffer_size", 100)
	v.SetDefault("sse.client_timeout", 60*time.Second)
}

// Load reads the optional config file and the environment. Token and
// either endpoint or space id are required, the rest has defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("blog-mcp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BLOG_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Contentful.Token == "" {
		return nil, errors.New("missing content source configuration: set BLOG_MCP_CONTENTFUL_TOKEN")
	}
	if cfg.Contentful.Endpoint == "" && cfg.Contentful.SpaceID == "" {
		return nil, errors.New("missing content source configuration: set BLOG_MCP_CONTENTFUL_ENDPOINT or BLOG_MCP_CONTENTFUL_SPACE_ID")
	}

	return &cfg, nil
}
