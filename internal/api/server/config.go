package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/DjordjeVuckovic/crossbench/pkg/utils"
)

const DefaultPort = "8080"

type Config struct {
	Port        string   `yaml:"port"`
	UseHttp2    bool     `yaml:"use_http2"`
	CorsOrigins []string `yaml:"cors_origins"`
}

// Normalize applies defaults and validates the port.
func (c *Config) Normalize() error {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if err := validatePort(c.Port); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	for _, o := range c.CorsOrigins {
		origins = append(origins, utils.SplitCSV(o)...)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CorsOrigins = origins
	return nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
