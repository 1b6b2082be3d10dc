package terrain

import (
	"math"
	"strconv"

	"lemterrain/internal/core"
)

// Parameters groups the configuration for display.
func (c Config) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Model",
			Params: []core.Parameter{
				uintParam("seed", "Seed", c.Seed),
				intParam("particle_num", "Particles", c.ParticleNum),
				intParam("relax_iterations", "Relax iterations", c.RelaxIterations),
				stringParam("noise", "Noise", c.Noise),
			},
		},
		{
			Name: "Landmass",
			Params: []core.Parameter{
				floatParam("land_ratio", "Land ratio", c.LandRatio),
				floatParam("fault_scale", "Fault scale", c.FaultScale),
				boolParam("convex_hull_is_always_outlet", "Hull always outlet", c.ConvexHullIsAlwaysOutlet),
			},
		},
		{
			Name: "Erosion",
			Params: []core.Parameter{
				floatParam("erodibility_distribution_power", "Erodibility power", c.ErodibilityDistributionPower),
				floatParam("global_max_slope", "Max slope", c.GlobalMaxSlope),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the preview HUD may adjust.
func (c Config) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "land_ratio", Label: "Land ratio", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "fault_scale", Label: "Fault scale", Type: core.ParamTypeFloat, Step: 5, Min: 0, HasMin: true},
		{Key: "erodibility_distribution_power", Label: "Erodibility power", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, HasMin: true},
		{Key: "global_max_slope", Label: "Max slope", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: math.Pi / 2, HasMin: true, HasMax: true},
		{Key: "particle_num", Label: "Particles", Type: core.ParamTypeInt, Step: 1000, Min: 100, Max: 200_000, HasMin: true, HasMax: true},
		{Key: "relax_iterations", Label: "Relax iterations", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 20, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float field if the result stays valid.
func (c *Config) SetFloatParameter(key string, value float64) bool {
	return c.trySet(key, strconv.FormatFloat(value, 'g', -1, 64))
}

// SetIntParameter updates an integer field if the result stays valid.
func (c *Config) SetIntParameter(key string, value int) bool {
	return c.trySet(key, strconv.Itoa(value))
}

func (c *Config) trySet(key, value string) bool {
	next := *c
	if err := next.Set(key, value); err != nil {
		return false
	}
	if err := next.Validate(); err != nil {
		return false
	}
	*c = next
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func uintParam(key, label string, value uint32) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatUint(uint64(value), 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
