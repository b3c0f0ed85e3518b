package layout

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadStructured reads a YAML, JSON or TOML layout. Keys follow the
// mapstructure tags on Layout and BallSpec.
func LoadStructured(path string) (*Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("display_threshold", 1)
	v.SetDefault("elasticity", 1.0)
	v.SetDefault("power", 3)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}

	var l Layout
	if err := v.Unmarshal(&l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return &l, nil
}
