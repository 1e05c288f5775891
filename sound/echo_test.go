package sound

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"
)

func pcmFrames(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

// oneByteReader hands out its data a byte at a time.
type oneByteReader struct {
	data []byte
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestSpaceEchoClampsParams(t *testing.T) {
	e := NewSpaceEcho()
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.25, 0.25},
		{4, 1},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		e.SetParamNormalized(EchoFeedback, tc.in)
		if got := e.ParamNormalized(EchoFeedback); got != tc.want {
			t.Fatalf("set %v: got %v, want %v", tc.in, got, tc.want)
		}
	}
	e.SetParamNormalized(99, 1)
	if e.ParamNormalized(99) != 0 {
		t.Fatalf("out of range index must be ignored")
	}
}

func TestSpaceEchoDryPassthrough(t *testing.T) {
	in := pcmFrames(0, 0, 16384, -16384, 32767, -32768, 100, -100)
	out, err := io.ReadAll(NewSpaceEcho().Wrap(bytes.NewReader(in)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d bytes, got %d", len(in), len(out))
	}
	for i := 0; i < len(in); i += 2 {
		want := int16(binary.LittleEndian.Uint16(in[i:]))
		got := int16(binary.LittleEndian.Uint16(out[i:]))
		if d := int(want) - int(got); d < -1 || d > 1 {
			t.Fatalf("sample %d: got %d, want %d", i/2, got, want)
		}
	}
}

func TestSpaceEchoCarriesPartialFrames(t *testing.T) {
	in := pcmFrames(1000, -1000, 2000, -2000, 3000, -3000)
	r := NewSpaceEcho().Wrap(&oneByteReader{data: in})
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d bytes, got %d", len(in), len(out))
	}
}

func TestSpaceEchoShortBuffer(t *testing.T) {
	r := NewSpaceEcho().Wrap(bytes.NewReader(pcmFrames(1, 1)))
	if _, err := r.Read(make([]byte, 2)); err != io.ErrShortBuffer {
		t.Fatalf("expected io.ErrShortBuffer, got %v", err)
	}
}

func TestSpaceEchoFeedbackAddsTail(t *testing.T) {
	e := NewSpaceEcho()
	e.SetParamNormalized(EchoRate, 1)
	e.SetParamNormalized(EchoFeedback, 1)

	frames := int(0.2 * SampleRate)
	in := make([]byte, frames*bytesPerFrame)
	copy(in, pcmFrames(16000, 16000))
	out, err := io.ReadAll(e.Wrap(bytes.NewReader(in)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var tail bool
	for i := bytesPerFrame; i < len(out); i += 2 {
		if binary.LittleEndian.Uint16(out[i:]) != 0 {
			tail = true
			break
		}
	}
	if !tail {
		t.Fatalf("an impulse through the echo should produce a delayed repeat")
	}
}

func TestSpaceEchoLineFitsLongestTap(t *testing.T) {
	longest := echoMaxDelay * echoReverbTap * SampleRate
	if float64(echoLineSize) <= longest {
		t.Fatalf("delay line of %d frames cannot hold a %.1f frame tap", echoLineSize, longest)
	}
	r := NewSpaceEcho().Wrap(bytes.NewReader(nil)).(*echoReader)
	if len(r.left) != echoLineSize || len(r.rght) != echoLineSize {
		t.Fatalf("unexpected line sizes %d, %d", len(r.left), len(r.rght))
	}
}
