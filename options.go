package lowhash

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the bucket count used when New is given zero.
	DefaultCapacity = 16
	// DefaultLoadFactor is the Len/BucketCount ratio above which the table grows.
	DefaultLoadFactor = 0.75
	// DefaultGrowthFactor multiplies the bucket count on every grow.
	DefaultGrowthFactor = 2
	// ShrinkFraction: with auto shrink enabled, the table halves when
	// occupancy drops below 1/ShrinkFraction of the bucket count.
	ShrinkFraction = 8
	// MaxBuckets is the default ceiling on the bucket array length.
	MaxBuckets = 1 << 30
)

// Config holds the tunables of a Table. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// LoadFactor is the grow threshold, in (0, 1].
	LoadFactor float64 `yaml:"load_factor"`

	// GrowthFactor multiplies the bucket count on grow. Must be >= 2.
	GrowthFactor int `yaml:"growth_factor"`

	// MaxBuckets caps the bucket array length. Growth past the cap is
	// clamped; a table already at the cap keeps its size and a resize
	// failure is recorded.
	MaxBuckets int `yaml:"max_buckets"`

	// AutoShrink lets Remove halve the bucket array when occupancy drops
	// below 1/ShrinkFraction. The table never shrinks below its initial
	// capacity. Disabled by default: the table only grows.
	AutoShrink bool `yaml:"auto_shrink"`

	// Logger receives resize events. Nil means zap.NewNop.
	Logger *zap.Logger `yaml:"-"`
}

// Option configures a Table at construction.
type Option func(*Config)

// DefaultConfig returns the configuration New starts from.
func DefaultConfig() Config {
	return Config{
		LoadFactor:   DefaultLoadFactor,
		GrowthFactor: DefaultGrowthFactor,
		MaxBuckets:   MaxBuckets,
	}
}

// Validate reports the first out-of-range field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if math.IsNaN(c.LoadFactor) || c.LoadFactor <= 0 || c.LoadFactor > 1 {
		return fmt.Errorf("%w: load factor %v not in (0, 1]", ErrInvalidConfig, c.LoadFactor)
	}
	if c.GrowthFactor < 2 {
		return fmt.Errorf("%w: growth factor %d below 2", ErrInvalidConfig, c.GrowthFactor)
	}
	if c.MaxBuckets <= 0 {
		return fmt.Errorf("%w: max buckets %d must be positive", ErrInvalidConfig, c.MaxBuckets)
	}
	// A halved table sits below 2/ShrinkFraction and must stay under the
	// grow threshold.
	if c.AutoShrink && c.LoadFactor <= 2.0/ShrinkFraction {
		return fmt.Errorf("%w: load factor %v too low for auto shrink", ErrInvalidConfig, c.LoadFactor)
	}
	return nil
}

// WithLogger sets the logger used for resize events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithLoadFactor sets the grow threshold.
func WithLoadFactor(f float64) Option {
	return func(c *Config) {
		c.LoadFactor = f
	}
}

// WithGrowthFactor sets the bucket count multiplier used on grow.
func WithGrowthFactor(n int) Option {
	return func(c *Config) {
		c.GrowthFactor = n
	}
}

// WithMaxBuckets caps the bucket array length.
func WithMaxBuckets(n int) Option {
	return func(c *Config) {
		c.MaxBuckets = n
	}
}

// WithAutoShrink enables shrinking on Remove.
func WithAutoShrink() Option {
	return func(c *Config) {
		c.AutoShrink = true
	}
}

// WithConfig replaces the tunables with cfg, keeping an already set
// logger when cfg carries none. Zero numeric fields fall back to defaults
// so a partially filled Config (for example one decoded from YAML) works.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		logger := c.Logger
		*c = cfg
		if c.Logger == nil {
			c.Logger = logger
		}
		if c.LoadFactor == 0 {
			c.LoadFactor = DefaultLoadFactor
		}
		if c.GrowthFactor == 0 {
			c.GrowthFactor = DefaultGrowthFactor
		}
		if c.MaxBuckets == 0 {
			c.MaxBuckets = MaxBuckets
		}
	}
}
