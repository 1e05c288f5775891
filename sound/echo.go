package sound

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// Echo parameter indices as exposed by SpaceEcho.Params.
const (
	EchoRate = iota
	EchoFeedback
	EchoReverb
	echoParamCount
)

const (
	echoMinDelay = 0.08 // seconds at rate 1
	echoMaxDelay = 0.55 // seconds at rate 0
	// feedback is capped below unity so the loop always decays
	echoMaxFeedback = 0.85
	echoWetLevel    = 0.6
	echoReverbTap   = 1.5
)

// echoLineSize holds the longest reverb tap in frames.
var echoLineSize = int(math.Ceil(echoMaxDelay*echoReverbTap*SampleRate)) + 1

var echoParamNames = [echoParamCount]string{
	EchoRate:     "Echo_Rate",
	EchoFeedback: "FeedBack_1",
	EchoReverb:   "Reverb_Gain",
}

// SpaceEcho is a tape-style echo applied to the music streams. Parameters are
// written from the game loop and read from the audio device goroutine, so they
// are stored atomically.
type SpaceEcho struct {
	params [echoParamCount]atomic.Uint64
}

func NewSpaceEcho() *SpaceEcho {
	return &SpaceEcho{}
}

func (e *SpaceEcho) Params() []ParamInfo {
	out := make([]ParamInfo, 0, echoParamCount)
	for i, name := range echoParamNames {
		out = append(out, ParamInfo{Index: i, Name: name})
	}
	return out
}

func (e *SpaceEcho) SetParamNormalized(index int, value float64) {
	if index < 0 || index >= echoParamCount {
		return
	}
	if math.IsNaN(value) {
		value = 0
	}
	value = math.Max(0, math.Min(1, value))
	e.params[index].Store(math.Float64bits(value))
}

func (e *SpaceEcho) ParamNormalized(index int) float64 {
	if index < 0 || index >= echoParamCount {
		return 0
	}
	return math.Float64frombits(e.params[index].Load())
}

// Wrap returns a reader applying the echo to 16-bit stereo PCM from src.
// Every wrapped stream keeps its own delay line.
func (e *SpaceEcho) Wrap(src io.Reader) io.Reader {
	size := echoLineSize
	return &echoReader{
		src:  src,
		echo: e,
		left: make([]float32, size),
		rght: make([]float32, size),
	}
}

type echoReader struct {
	src     io.Reader
	echo    *SpaceEcho
	left    []float32
	rght    []float32
	pos     int
	pending []byte
}

func (r *echoReader) Read(p []byte) (int, error) {
	if len(p) < bytesPerFrame {
		return 0, io.ErrShortBuffer
	}

	// a partial trailing frame is carried into the next read
	buf := make([]byte, 0, len(p)+bytesPerFrame)
	buf = append(buf, r.pending...)
	r.pending = r.pending[:0]

	var err error
	for len(buf) < bytesPerFrame && err == nil {
		var n int
		n, err = r.src.Read(p[:len(p)-len(buf)])
		buf = append(buf, p[:n]...)
	}

	frames := min(len(buf), len(p)) / bytesPerFrame
	r.pending = append(r.pending, buf[frames*bytesPerFrame:]...)
	if frames == 0 {
		return 0, err
	}

	rate := r.echo.ParamNormalized(EchoRate)
	feedback := float32(r.echo.ParamNormalized(EchoFeedback) * echoMaxFeedback)
	reverb := float32(r.echo.ParamNormalized(EchoReverb))
	delay := int((echoMaxDelay - rate*(echoMaxDelay-echoMinDelay)) * SampleRate)
	tap := int(float64(delay) * echoReverbTap)
	size := len(r.left)

	for i := 0; i < frames; i++ {
		off := i * bytesPerFrame
		dryL := float32(int16(binary.LittleEndian.Uint16(buf[off:]))) / 32768
		dryR := float32(int16(binary.LittleEndian.Uint16(buf[off+2:]))) / 32768

		d := (r.pos - delay + size) % size
		t := (r.pos - tap + size) % size
		wetL, wetR := r.left[d], r.rght[d]
		tailL, tailR := r.left[t], r.rght[t]

		r.left[r.pos] = dryL + wetL*feedback
		r.rght[r.pos] = dryR + wetR*feedback
		r.pos = (r.pos + 1) % size

		outL := dryL + (wetL*feedback+tailL*reverb*0.5)*echoWetLevel
		outR := dryR + (wetR*feedback+tailR*reverb*0.5)*echoWetLevel
		binary.LittleEndian.PutUint16(p[off:], uint16(toPCM16(outL)))
		binary.LittleEndian.PutUint16(p[off+2:], uint16(toPCM16(outR)))
	}
	if len(r.pending) > 0 && err == io.EOF {
		// the stream ended mid-frame; the stray bytes are not audio
		r.pending = r.pending[:0]
	}
	return frames * bytesPerFrame, err
}

func toPCM16(v float32) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
