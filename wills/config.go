package wills

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the timeframe bounds every will must respect. The minimum
// activity threshold must exceed the minimum grace period so that any
// in-range pair can satisfy the threshold > grace ordering.
type Config struct {
	MinGracePeriod       time.Duration `env:"MIN_GRACE_PERIOD" envDefault:"24h"`
	MaxGracePeriod       time.Duration `env:"MAX_GRACE_PERIOD" envDefault:"720h"`
	MinActivityThreshold time.Duration `env:"MIN_ACTIVITY_THRESHOLD" envDefault:"168h"`
	MaxActivityThreshold time.Duration `env:"MAX_ACTIVITY_THRESHOLD" envDefault:"8760h"`
}

// ParseConfig parses environment variables to a valid Config.
func ParseConfig() (cfg Config) {
	opts := env.Options{Prefix: "WILL_REGISTRY_"}
	if err := env.Parse(&cfg, opts); err != nil {
		panic(err)
	}
	return
}
