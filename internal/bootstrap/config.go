package bootstrap

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	DefaultBoardSize int     `mapstructure:"DEFAULT_BOARD_SIZE"`
	SaveDir          string  `mapstructure:"SAVE_DIR"`
	WrongLog         string  `mapstructure:"WRONG_LOG"`
	ShuffleSolve     bool    `mapstructure:"SHUFFLE_SOLVE"`
	RandomTransform  bool    `mapstructure:"RANDOM_TRANSFORM"`
	LogLevel         string  `mapstructure:"LOG_LEVEL"`
	PageLimitTasks   int     `mapstructure:"PAGE_LIMIT_TASKS"`
	PdfFontSize      float64 `mapstructure:"PDF_FONT_SIZE"`
}

var defaults = map[string]any{
	"DEFAULT_BOARD_SIZE": 13,
	"SAVE_DIR":           ".",
	"WRONG_LOG":          "",
	"SHUFFLE_SOLVE":      true,
	"RANDOM_TRANSFORM":   true,
	"LOG_LEVEL":          "info",
	"PAGE_LIMIT_TASKS":   20,
	"PDF_FONT_SIZE":      10,
}

// Setup reads cfgPath over the defaults; environment variables win over
// both. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
