package starsys

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

var (
	// J2000 is the default epoch of a scenario.
	J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	// ErrNoBodies is returned when a scenario does not define any body.
	ErrNoBodies = errors.New("scenario defines no bodies")
)

// BodyConfig defines a body of a scenario.
type BodyConfig struct {
	Name      string
	Preset    string
	Kind      BodyKind
	Mass      float64
	Radius    float64
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	AutoOrbit bool // Overrides the velocity with a circular orbit about the first Fixed body
}

// Scenario defines a full simulation: engine tunables, bodies and export settings.
type Scenario struct {
	Name     string
	Engine   Config
	Bodies   []BodyConfig
	Epoch    time.Time     // Date of the start of the simulation, used for exports
	TimeUnit time.Duration // Duration represented by one simulated second
	Export   ExportConfig
}

// Date returns the scenario date after the provided number of simulated seconds.
func (s Scenario) Date(simTime float64) time.Time {
	return s.Epoch.Add(time.Duration(simTime * float64(s.TimeUnit)))
}

// bodyRecord is how a body is written in a scenario file.
type bodyRecord struct {
	Name      string    `mapstructure:"name"`
	Preset    string    `mapstructure:"preset"`
	Kind      string    `mapstructure:"kind"`
	Mass      float64   `mapstructure:"mass"`
	Radius    float64   `mapstructure:"radius"`
	Position  []float64 `mapstructure:"position"`
	Velocity  []float64 `mapstructure:"velocity"`
	AutoOrbit bool      `mapstructure:"auto_orbit"`
}

// DefaultScenario returns the star and planet the simulator opens with.
func DefaultScenario() Scenario {
	conf := DefaultConfig()
	conf.Paused = true
	return Scenario{
		Name:   "default",
		Engine: conf,
		Bodies: []BodyConfig{
			{Name: "Earth", Kind: Movable, Mass: Earth.Mass, Radius: Earth.Radius, Position: mgl64.Vec3{-5, 0, 0}, Velocity: mgl64.Vec3{0, 0, -10}},
			{Name: "Sun", Kind: Fixed, Mass: Sun.Mass, Radius: Sun.Radius, Velocity: mgl64.Vec3{0, 0, 0.063245}},
		},
		Epoch:    J2000,
		TimeUnit: 24 * time.Hour,
		Export:   ExportConfig{Dir: ".", Filename: "default"},
	}
}

// LoadScenario reads a scenario TOML (or any format viper supports) file.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return ScenarioFromViper(v)
}

// ScenarioFromViper reads a scenario from an already loaded viper instance.
func ScenarioFromViper(v *viper.Viper) (Scenario, error) {
	def := DefaultConfig()
	v.SetDefault("name", "scenario")
	v.SetDefault("engine.g", def.G)
	v.SetDefault("engine.max_delta_time", def.MaxDeltaTime)
	v.SetDefault("engine.time_multiplier", def.TimeMultiplier)
	v.SetDefault("engine.paused", false)
	v.SetDefault("engine.min_distance", 0)
	v.SetDefault("prediction.steps", def.PredictionSteps)
	v.SetDefault("prediction.step_time", def.PredictionStepTime)
	v.SetDefault("prediction.cache_paused", false)
	v.SetDefault("time_unit", 24*time.Hour)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.cosmo", false)
	v.SetDefault("export.csv", false)
	v.SetDefault("export.timestamp", false)

	s := Scenario{Name: v.GetString("name")}
	s.Engine = Config{
		G:                     v.GetFloat64("engine.g"),
		MaxDeltaTime:          v.GetFloat64("engine.max_delta_time"),
		TimeMultiplier:        v.GetFloat64("engine.time_multiplier"),
		Paused:                v.GetBool("engine.paused"),
		MinDistance:           v.GetFloat64("engine.min_distance"),
		PredictionSteps:       v.GetInt("prediction.steps"),
		PredictionStepTime:    v.GetFloat64("prediction.step_time"),
		CachePausedPrediction: v.GetBool("prediction.cache_paused"),
	}
	if s.Engine.MaxDeltaTime <= 0 {
		return s, fmt.Errorf("engine.max_delta_time must be positive, got %f", s.Engine.MaxDeltaTime)
	}
	if s.Engine.TimeMultiplier < 0 {
		return s, fmt.Errorf("engine.time_multiplier must not be negative, got %f", s.Engine.TimeMultiplier)
	}
	if s.Engine.PredictionSteps < 0 {
		return s, fmt.Errorf("prediction.steps must not be negative, got %d", s.Engine.PredictionSteps)
	}

	s.Epoch = confReadJDEorTime(v, "epoch")
	s.TimeUnit = v.GetDuration("time_unit")
	s.Export = ExportConfig{
		Dir:       v.GetString("export.dir"),
		Filename:  v.GetString("export.filename"),
		Cosmo:     v.GetBool("export.cosmo"),
		AsCSV:     v.GetBool("export.csv"),
		Timestamp: v.GetBool("export.timestamp"),
	}
	if s.Export.Filename == "" {
		s.Export.Filename = s.Name
	}

	var records []bodyRecord
	if err := v.UnmarshalKey("bodies", &records); err != nil {
		return s, fmt.Errorf("could not read bodies: %w", err)
	}
	if len(records) == 0 {
		return s, ErrNoBodies
	}
	for i, rec := range records {
		bc, err := rec.toConfig()
		if err != nil {
			return s, fmt.Errorf("bodies.%d: %w", i, err)
		}
		if bc.Name == "" {
			bc.Name = fmt.Sprintf("body-%d", i)
		}
		s.Bodies = append(s.Bodies, bc)
	}
	return s, nil
}

func (r bodyRecord) toConfig() (BodyConfig, error) {
	bc := BodyConfig{Name: r.Name, Preset: r.Preset, AutoOrbit: r.AutoOrbit}
	if r.Preset != "" {
		p, err := PresetFromString(r.Preset)
		if err != nil {
			return bc, err
		}
		bc.Kind = p.Kind
		bc.Mass = p.Mass
		bc.Radius = p.Radius
		bc.Position = mgl64.Vec3{-p.Distance, 0, 0}
		if bc.Name == "" {
			bc.Name = p.Name
		}
	}
	if r.Kind != "" {
		kind, err := BodyKindFromString(r.Kind)
		if err != nil {
			return bc, err
		}
		bc.Kind = kind
	}
	if r.Mass != 0 {
		bc.Mass = r.Mass
	}
	if r.Radius != 0 {
		bc.Radius = r.Radius
	}
	if bc.Mass <= 0 {
		return bc, fmt.Errorf("mass of '%s' must be positive, got %f", bc.Name, bc.Mass)
	}
	if r.Position != nil {
		if len(r.Position) != 3 {
			return bc, fmt.Errorf("position of '%s' must have three components, got %d", bc.Name, len(r.Position))
		}
		bc.Position = Vec3FromSlice(r.Position)
	}
	if r.Velocity != nil {
		if len(r.Velocity) != 3 {
			return bc, fmt.Errorf("velocity of '%s' must have three components, got %d", bc.Name, len(r.Velocity))
		}
		bc.Velocity = Vec3FromSlice(r.Velocity)
	}
	return bc, nil
}

// confReadJDEorTime reads a date either as a Julian date or as a time.
func confReadJDEorTime(v *viper.Viper, key string) time.Time {
	if !v.IsSet(key) {
		return J2000
	}
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde)
	}
	if dt := v.GetTime(key); !dt.IsZero() {
		return dt.UTC()
	}
	return J2000
}

// NewBodies returns the bodies of this scenario. Bodies flagged AutoOrbit are given a circular
// orbit velocity about the first Fixed body (or the first body if none is Fixed).
func (s Scenario) NewBodies() []*Body {
	bodies := make([]*Body, len(s.Bodies))
	var central *Body
	for i, bc := range s.Bodies {
		bodies[i] = &Body{Name: bc.Name, Position: bc.Position, Velocity: bc.Velocity, Mass: bc.Mass, Kind: bc.Kind}
		if central == nil && bc.Kind == Fixed {
			central = bodies[i]
		}
	}
	if central == nil && len(bodies) > 0 {
		central = bodies[0]
	}
	for i, bc := range s.Bodies {
		if bc.AutoOrbit && bodies[i] != central {
			bodies[i].Velocity = CircularOrbitVelocity(s.Engine.G, *central, bodies[i].Position)
		}
	}
	return bodies
}
