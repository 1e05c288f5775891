package component

// EchoTilt maps the tilt of the named bowl onto the music echo. Each ceiling
// is the normalized parameter value reached at maximum tilt.
type EchoTilt struct {
	BowlName string

	EchoRateAtMaxTilt float64
	FeedbackAtMaxTilt float64
	ReverbAtMaxTilt   float64

	RateParam          string
	FeedbackParam      string
	FeedbackParamAlias string
	ReverbParam        string

	// Amount is the last applied tilt amount in 0..1.
	Amount float64
}

var EchoTiltComponent = NewComponent[EchoTilt]()
