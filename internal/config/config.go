package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	DBPath        string `env:"DB_PATH" envDefault:"/data/photogrid.db"`
	PhotoPath     string `env:"PHOTO_LOCAL_PATH" envDefault:"/data/photos"`
	CameraCommand string `env:"CAMERA_COMMAND" envDefault:"libcamera-still --nopreview --immediate -o {output}"`
	CameraDevice  string `env:"CAMERA_DEVICE" envDefault:"/dev/video0"`
	CameraAccess  string `env:"CAMERA_ACCESS" envDefault:"granted"`
	LibraryAccess string `env:"MEDIA_LIBRARY_ACCESS" envDefault:"granted"`
	LibraryRoot   string `env:"MEDIA_LIBRARY_ROOT"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile       string `env:"LOG_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// CameraArgs splits CameraCommand into argv. The literal {output} marks where
// the capture file path goes.
func (c *Config) CameraArgs() []string {
	return strings.Fields(c.CameraCommand)
}
