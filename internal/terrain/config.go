package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml"

	"lemterrain/internal/core"
	"lemterrain/internal/noise"
)

// ErrInvalidConfig is returned by Validate and by generation when a
// configuration value is out of range.
var ErrInvalidConfig = errors.New("terrain: invalid config")

// Config controls a single terrain generation.
type Config struct {
	Seed uint32 `toml:"seed"`
	// ParticleNum is the number of scattered sites; edge sites come on top.
	ParticleNum int `toml:"particle_num"`
	// ErodibilityDistributionPower sharpens the erodibility field; higher
	// values leave more sites resistant to erosion.
	ErodibilityDistributionPower float64 `toml:"erodibility_distribution_power"`
	// FaultScale is the strength of the fault displacement in domain units.
	FaultScale float64 `toml:"fault_scale"`
	// LandRatio is the target fraction of land sites, in [0, 1].
	LandRatio float64 `toml:"land_ratio"`
	// ConvexHullIsAlwaysOutlet seeds outlet propagation from every boundary
	// site instead of only the ocean-like ones.
	ConvexHullIsAlwaysOutlet bool `toml:"convex_hull_is_always_outlet"`
	// GlobalMaxSlope caps slopes, in radians. Zero leaves them uncapped.
	GlobalMaxSlope float64 `toml:"global_max_slope"`

	Noise           string `toml:"noise"`
	RelaxIterations int    `toml:"relax_iterations"`
	// Workers bounds the per-site parallelism; 0 uses GOMAXPROCS.
	Workers int `toml:"workers"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:                         0,
		ParticleNum:                  50_000,
		ErodibilityDistributionPower: 4.0,
		FaultScale:                   35.0,
		LandRatio:                    0.6,
		ConvexHullIsAlwaysOutlet:     false,
		GlobalMaxSlope:               1.57,
		Noise:                        noise.Default,
		RelaxIterations:              10,
	}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unknown keys and unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	for k, v := range cfg {
		_ = c.Set(k, v)
	}
	return c
}

// Set parses value into the field named by key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case "seed":
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 32); err == nil {
			c.Seed = uint32(v)
		}
	case "particle_num":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			c.ParticleNum = v
		}
	case "erodibility_distribution_power":
		err = setFloat(&c.ErodibilityDistributionPower, value)
	case "fault_scale":
		err = setFloat(&c.FaultScale, value)
	case "land_ratio":
		err = setFloat(&c.LandRatio, value)
	case "convex_hull_is_always_outlet":
		var v bool
		if v, err = strconv.ParseBool(value); err == nil {
			c.ConvexHullIsAlwaysOutlet = v
		}
	case "global_max_slope":
		err = setFloat(&c.GlobalMaxSlope, value)
	case "noise":
		c.Noise = value
	case "relax_iterations":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			c.RelaxIterations = v
		}
	case "workers":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			c.Workers = v
		}
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return nil
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.ParticleNum < 1:
		return fmt.Errorf("%w: particle_num must be positive, got %d", ErrInvalidConfig, c.ParticleNum)
	case !finite(c.ErodibilityDistributionPower) || c.ErodibilityDistributionPower < 0:
		return fmt.Errorf("%w: erodibility_distribution_power must be >= 0, got %v", ErrInvalidConfig, c.ErodibilityDistributionPower)
	case !finite(c.FaultScale) || c.FaultScale < 0:
		return fmt.Errorf("%w: fault_scale must be >= 0, got %v", ErrInvalidConfig, c.FaultScale)
	case !(c.LandRatio >= 0 && c.LandRatio <= 1):
		return fmt.Errorf("%w: land_ratio must be within [0, 1], got %v", ErrInvalidConfig, c.LandRatio)
	case !(c.GlobalMaxSlope >= 0 && c.GlobalMaxSlope <= math.Pi/2):
		return fmt.Errorf("%w: global_max_slope must be within [0, pi/2], got %v", ErrInvalidConfig, c.GlobalMaxSlope)
	case c.RelaxIterations < 0:
		return fmt.Errorf("%w: relax_iterations must be >= 0, got %d", ErrInvalidConfig, c.RelaxIterations)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := noise.New(c.Noise, c.Seed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// fileConfig mirrors Config with optional fields so keys missing from a file
// keep their defaults.
type fileConfig struct {
	Seed                         *uint32  `toml:"seed"`
	ParticleNum                  *int     `toml:"particle_num"`
	ErodibilityDistributionPower *float64 `toml:"erodibility_distribution_power"`
	FaultScale                   *float64 `toml:"fault_scale"`
	LandRatio                    *float64 `toml:"land_ratio"`
	ConvexHullIsAlwaysOutlet     *bool    `toml:"convex_hull_is_always_outlet"`
	GlobalMaxSlope               *float64 `toml:"global_max_slope"`
	Noise                        *string  `toml:"noise"`
	RelaxIterations              *int     `toml:"relax_iterations"`
	Workers                      *int     `toml:"workers"`
}

// DecodeConfig parses TOML on top of DefaultConfig and validates the result.
func DecodeConfig(data []byte) (Config, error) {
	var f fileConfig
	if err := toml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("decode terrain config: %w", err)
	}
	c := DefaultConfig()
	overlay(&c.Seed, f.Seed)
	overlay(&c.ParticleNum, f.ParticleNum)
	overlay(&c.ErodibilityDistributionPower, f.ErodibilityDistributionPower)
	overlay(&c.FaultScale, f.FaultScale)
	overlay(&c.LandRatio, f.LandRatio)
	overlay(&c.ConvexHullIsAlwaysOutlet, f.ConvexHullIsAlwaysOutlet)
	overlay(&c.GlobalMaxSlope, f.GlobalMaxSlope)
	overlay(&c.Noise, f.Noise)
	overlay(&c.RelaxIterations, f.RelaxIterations)
	overlay(&c.Workers, f.Workers)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func overlay[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// EncodeConfig renders c as TOML.
func EncodeConfig(c Config) ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode terrain config: %w", err)
	}
	return data, nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read terrain config: %w", err)
	}
	return DecodeConfig(data)
}

// SaveConfig writes c to path as TOML.
func SaveConfig(path string, c Config) error {
	data, err := EncodeConfig(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write terrain config: %w", err)
	}
	return nil
}

// cacheFormat is bumped whenever generation output changes for an unchanged
// configuration.
const cacheFormat = 2

// Fingerprint identifies the surface that c generates over bounds with the
// fault displacement scaled by boundRange. Workers is excluded since it does
// not affect the output.
func (c Config) Fingerprint(bounds core.Bounds, boundRange mgl64.Vec2) string {
	d := xxhash.New()
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putF := func(v float64) { putU(math.Float64bits(v)) }
	putU(cacheFormat)
	putU(uint64(c.Seed))
	putU(uint64(c.ParticleNum))
	putF(c.ErodibilityDistributionPower)
	putF(c.FaultScale)
	putF(c.LandRatio)
	if c.ConvexHullIsAlwaysOutlet {
		putU(1)
	} else {
		putU(0)
	}
	putF(c.GlobalMaxSlope)
	_, _ = d.WriteString(c.Noise)
	putU(uint64(c.RelaxIterations))
	putF(bounds.Min.X())
	putF(bounds.Min.Y())
	putF(bounds.Max.X())
	putF(bounds.Max.Y())
	putF(boundRange.X())
	putF(boundRange.Y())
	return fmt.Sprintf("terrain/v%d/%016x", cacheFormat, d.Sum64())
}
