package sound

import (
	"math"

	"github.com/milk9111/planetbowl/common"
	"github.com/rs/zerolog"
)

// ParamInfo is one entry of an effect host's capability table.
type ParamInfo struct {
	Index int
	Name  string
}

// ParamHost is an audio effect exposing normalized (0..1) parameters.
type ParamHost interface {
	Params() []ParamInfo
	SetParamNormalized(index int, value float64)
}

// ResolveParam returns the index of the first parameter matching one of names,
// tried in order.
func ResolveParam(host ParamHost, names ...string) Optional[int] {
	if host == nil {
		return None[int]()
	}
	table := host.Params()
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, p := range table {
			if p.Name == name {
				return Some(p.Index)
			}
		}
	}
	return None[int]()
}

// TiltMapperConfig holds the per-parameter ceilings reached at maximum tilt
// and the parameter names to resolve.
type TiltMapperConfig struct {
	RateCeiling     float64
	FeedbackCeiling float64
	ReverbCeiling   float64

	RateParam     string
	FeedbackParam string
	FeedbackAlias string
	ReverbParam   string
}

// TiltMapper forwards tilt intensity to three echo parameters.
type TiltMapper struct {
	host     ParamHost
	cfg      TiltMapperConfig
	rate     Optional[int]
	feedback Optional[int]
	reverb   Optional[int]
	warned   bool
	log      zerolog.Logger
}

// NewTiltMapper resolves the parameter names once against host.
func NewTiltMapper(host ParamHost, cfg TiltMapperConfig, log zerolog.Logger) *TiltMapper {
	return &TiltMapper{
		host:     host,
		cfg:      cfg,
		rate:     ResolveParam(host, cfg.RateParam),
		feedback: ResolveParam(host, cfg.FeedbackParam, cfg.FeedbackAlias),
		reverb:   ResolveParam(host, cfg.ReverbParam),
		log:      log,
	}
}

// TiltAmount normalizes the horizontal tilt magnitude against the maximum
// tilt angle; angles below one degree are treated as one.
func TiltAmount(tilt common.Vec3, maxTiltAngle float64) float64 {
	return common.Clamp01(tilt.HorizontalMagnitude() / math.Max(1, maxTiltAngle))
}

// Apply writes amount*ceiling to every resolved parameter and returns amount.
func (m *TiltMapper) Apply(tilt common.Vec3, maxTiltAngle float64) float64 {
	amount := TiltAmount(tilt, maxTiltAngle)
	wrote := false
	if idx, ok := m.rate.Get(); ok {
		m.host.SetParamNormalized(idx, amount*m.cfg.RateCeiling)
		wrote = true
	}
	if idx, ok := m.feedback.Get(); ok {
		m.host.SetParamNormalized(idx, amount*m.cfg.FeedbackCeiling)
		wrote = true
	}
	if idx, ok := m.reverb.Get(); ok {
		m.host.SetParamNormalized(idx, amount*m.cfg.ReverbCeiling)
		wrote = true
	}
	if !wrote && !m.warned {
		m.warned = true
		m.log.Warn().
			Str("rate", m.cfg.RateParam).
			Str("feedback", m.cfg.FeedbackParam).
			Str("feedback_alias", m.cfg.FeedbackAlias).
			Str("reverb", m.cfg.ReverbParam).
			Msg("no echo parameters resolved; check the parameter names")
	}
	return amount
}

// Resolved counts the parameters found at construction.
func (m *TiltMapper) Resolved() int {
	n := 0
	for _, o := range []Optional[int]{m.rate, m.feedback, m.reverb} {
		if o.Present() {
			n++
		}
	}
	return n
}
