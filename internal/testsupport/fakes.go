package testsupport

import (
	"context"
	"os"
	"sync"

	"stemsplit/internal/media/audio"
	"stemsplit/internal/separator"
)

// Ramp returns a stereo signal whose samples step by 0.01 from offset.
func Ramp(sampleRate, length int, offset float64) audio.Signal {
	sig := audio.NewSignal(2, sampleRate, length)
	for i := range sig.Frames {
		v := offset + 0.01*float64(i)
		sig.Frames[i] = [2]float64{v, -v}
	}
	return sig
}

// Stems builds a StemMap of ramps, one per name, in the given order.
func Stems(sampleRate, length int, names ...string) separator.StemMap {
	stems := make(separator.StemMap, len(names))
	for i, name := range names {
		stems[i] = separator.Stem{Name: name, Signal: Ramp(sampleRate, length, 0.001*float64(i+1))}
	}
	return stems
}

// FakeSeparator returns a canned result and records requests.
type FakeSeparator struct {
	Result separator.Result
	Err    error

	mu       sync.Mutex
	Requests []separator.Request
}

// Separate implements separator.Separator.
func (f *FakeSeparator) Separate(_ context.Context, req separator.Request) (separator.Result, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.mu.Unlock()
	if f.Err != nil {
		return separator.Result{}, f.Err
	}
	return f.Result, nil
}

// Calls returns how many times Separate ran.
func (f *FakeSeparator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// EncodeCall records one FakeEncoder invocation.
type EncodeCall struct {
	Path       string
	SampleRate int
	Format     audio.Format
	Signal     audio.Signal
}

// FakeEncoder writes a placeholder file per call, or fails on FailOn.
type FakeEncoder struct {
	FailOn string
	Err    error

	mu    sync.Mutex
	Calls []EncodeCall
}

// Encode implements audio.Encoder.
func (f *FakeEncoder) Encode(_ context.Context, sig audio.Signal, path string, sampleRate int, format audio.Format) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, EncodeCall{Path: path, SampleRate: sampleRate, Format: format, Signal: sig})
	f.mu.Unlock()
	if f.FailOn != "" && path == f.FailOn {
		return f.Err
	}
	return os.WriteFile(path, []byte(format.Extension()), 0o644)
}
