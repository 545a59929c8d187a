package config

import "sort"

var Presets = map[string]map[string]*Config{
	"lorenz": {
		"classic":   {Demo: "lorenz", Params: map[string]float64{"sigma": 10, "rho": 28, "beta": 2.667}},
		"periodic":  {Demo: "lorenz", Params: map[string]float64{"sigma": 10, "rho": 99.96, "beta": 2.667}},
		"quiescent": {Demo: "lorenz", Params: map[string]float64{"sigma": 10, "rho": 14, "beta": 2.667}},
	},
	"aizawa": {
		"default": {Demo: "aizawa", Params: map[string]float64{"a": 0.95, "b": 0.7, "c": 0.6, "d": 3.5, "e": 0.25, "f": 0.1}},
	},
	"double-pendulum": {
		"classic":   {Demo: "double-pendulum", Params: map[string]float64{"g": 9.81, "m1": 15, "m2": 15, "count": 10, "offset": 0.001}},
		"heavy-tip": {Demo: "double-pendulum", Params: map[string]float64{"m1": 5, "m2": 40}},
		"inverted":  {Demo: "double-pendulum", Params: map[string]float64{"angle": 3.1, "offset": 0.0001}},
	},
	"clifford": {
		"default-silk":   {Demo: "clifford", Params: map[string]float64{"a": -1.4, "b": 1.6, "c": 1.0, "d": 0.7}},
		"ghostly-velvet": {Demo: "clifford", Params: map[string]float64{"a": 1.7, "b": 1.7, "c": 0.6, "d": 1.2}},
		"nebula-core":    {Demo: "clifford", Params: map[string]float64{"a": -1.7, "b": 1.3, "c": -0.1, "d": -1.2}},
		"quantum-foam":   {Demo: "clifford", Params: map[string]float64{"a": -1.7, "b": 1.8, "c": -1.9, "d": -0.4}},
	},
	"reaction-diffusion": {
		"coral":   {Demo: "reaction-diffusion", Params: map[string]float64{"feed": 0.055, "kill": 0.062}},
		"spotted": {Demo: "reaction-diffusion", Params: map[string]float64{"feed": 0.035, "kill": 0.065}},
		"striped": {Demo: "reaction-diffusion", Params: map[string]float64{"feed": 0.045, "kill": 0.065}},
	},
	"boids": {
		"murmuration": {Demo: "boids", Params: map[string]float64{"separationWeight": 1.5, "alignmentWeight": 1, "cohesionWeight": 1, "maxSpeed": 4}},
		"scatter":     {Demo: "boids", Params: map[string]float64{"separationWeight": 3, "alignmentWeight": 0.2, "cohesionWeight": 0.2}},
		"school":      {Demo: "boids", Params: map[string]float64{"separationWeight": 1, "alignmentWeight": 2.5, "cohesionWeight": 1.5, "maxSpeed": 6}},
	},
	"langton": {
		"highway": {Demo: "langton", Params: map[string]float64{"steps": 2000, "size": 200}},
	},
	"epicycles": {
		"heart":     {Demo: "epicycles", Params: map[string]float64{"shape": 0, "harmonics": 50}},
		"butterfly": {Demo: "epicycles", Params: map[string]float64{"shape": 3, "harmonics": 300}},
	},
	"fractal-tree": {
		"bonsai": {Demo: "fractal-tree", Params: map[string]float64{"depth": 10, "angle": 25, "wind": 1}},
		"storm":  {Demo: "fractal-tree", Params: map[string]float64{"depth": 9, "angle": 35, "wind": 3}},
	},
}

func GetPreset(demo, preset string) *Config {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	cfg, ok := demoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names of demo in sorted order.
func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
