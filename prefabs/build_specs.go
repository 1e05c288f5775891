package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// EncodeComponentSpec turns a typed spec back into the generic form stored
// in EntityBuildSpec.Components.
func EncodeComponentSpec[T any](spec T) (map[string]any, error) {
	b, err := yaml.Marshal(spec)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type NameComponentSpec struct {
	Value string `yaml:"value"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type RenderComponentSpec struct {
	Color *YAMLColor `yaml:"color,omitempty"`
	Layer int        `yaml:"layer,omitempty"`
}

type PhysicsBodyComponentSpec struct {
	Mode        string   `yaml:"mode"`
	Mass        float64  `yaml:"mass,omitempty"`
	Drag        float64  `yaml:"drag,omitempty"`
	AngularDrag float64  `yaml:"angular_drag,omitempty"`
	UseGravity  *bool    `yaml:"use_gravity,omitempty"`
	Friction    *float64 `yaml:"friction,omitempty"`
	Elasticity  *float64 `yaml:"elasticity,omitempty"`
	Collider    string   `yaml:"collider,omitempty"`
	Radius      float64  `yaml:"radius,omitempty"`
}

type BowlMeshComponentSpec struct {
	Radius    float64 `yaml:"radius"`
	Segments  int     `yaml:"segments"`
	Span      float64 `yaml:"span_degrees"`
	Thickness float64 `yaml:"thickness"`
}

type BowlTiltComponentSpec struct {
	MaxTiltAngle float64 `yaml:"max_tilt_angle"`
	TiltSpeed    float64 `yaml:"tilt_speed"`
}

type BowlTetherComponentSpec struct {
	Bowl         string  `yaml:"bowl"`
	FallDistance float64 `yaml:"fall_distance,omitempty"`
}

type PersistentComponentSpec struct {
	ID           string `yaml:"id"`
	KeepOnReload bool   `yaml:"keep_on_reload"`
}

type MusicPlayerComponentSpec struct {
	AmbientClip       string    `yaml:"ambient_clip"`
	Volume            *float64  `yaml:"volume,omitempty"`
	MusicTracks       []string  `yaml:"music_tracks"`
	TrackVolumes      []float64 `yaml:"track_volumes"`
	CrossfadeDuration *float64  `yaml:"crossfade_duration,omitempty"`
}

type CollisionSoundComponentSpec struct {
	Clip              string   `yaml:"clip"`
	Volume            *float64 `yaml:"volume,omitempty"`
	MinCollisionSpeed *float64 `yaml:"min_collision_speed,omitempty"`
	Cooldown          *float64 `yaml:"cooldown,omitempty"`
}

type EchoTiltComponentSpec struct {
	Bowl               string   `yaml:"bowl"`
	EchoRateAtMaxTilt  *float64 `yaml:"echo_rate_at_max_tilt,omitempty"`
	FeedbackAtMaxTilt  *float64 `yaml:"feedback_at_max_tilt,omitempty"`
	ReverbAtMaxTilt    *float64 `yaml:"reverb_at_max_tilt,omitempty"`
	RateParam          string   `yaml:"rate_param,omitempty"`
	FeedbackParam      string   `yaml:"feedback_param,omitempty"`
	FeedbackParamAlias string   `yaml:"feedback_param_alias,omitempty"`
	ReverbParam        string   `yaml:"reverb_param,omitempty"`
}

type PlanetBowlSetupComponentSpec struct {
	Planet            string   `yaml:"planet,omitempty"`
	Bowl              string   `yaml:"bowl,omitempty"`
	AutoSetupOnStart  *bool    `yaml:"auto_setup_on_start,omitempty"`
	PlanetMass        *float64 `yaml:"planet_mass,omitempty"`
	PlanetDrag        *float64 `yaml:"planet_drag,omitempty"`
	PlanetAngularDrag *float64 `yaml:"planet_angular_drag,omitempty"`
	MakeBowlStatic    *bool    `yaml:"make_bowl_static,omitempty"`
}
