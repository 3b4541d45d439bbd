package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	TokenSecret    string `envconfig:"TOKEN_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`

	CanvasWidth   int     `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight  int     `envconfig:"CANVAS_HEIGHT" default:"720"`
	IndexCapacity int     `envconfig:"INDEX_CAPACITY" default:"10"`
	IndexMaxDepth int     `envconfig:"INDEX_MAX_DEPTH" default:"5"`
	DirtyMargin   float64 `envconfig:"DIRTY_MARGIN" default:"2"`
	MinShapeSize  float64 `envconfig:"MIN_SHAPE_SIZE" default:"5"`
	CoalesceDirty bool    `envconfig:"COALESCE_DIRTY" default:"false"`

	FrameInterval time.Duration `envconfig:"FRAME_INTERVAL" default:"16ms"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d must be positive", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.FrameInterval <= 0 {
		return nil, fmt.Errorf("frame interval %s must be positive", cfg.FrameInterval)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
