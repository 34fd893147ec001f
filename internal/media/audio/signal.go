package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Signal is a decoded multi-channel sample buffer with its sample rate.
type Signal struct {
	Frames     [][2]float64
	Channels   int
	SampleRate int
}

// NewSignal allocates a silent signal of the given shape.
func NewSignal(channels, sampleRate, length int) Signal {
	return Signal{
		Frames:     make([][2]float64, length),
		Channels:   channels,
		SampleRate: sampleRate,
	}
}

// Len returns the number of frames.
func (s Signal) Len() int {
	return len(s.Frames)
}

// Duration returns the playback length at the signal's own sample rate.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Frames)) / float64(s.SampleRate) * float64(time.Second))
}

// Peak returns the largest absolute sample value across all channels.
func (s Signal) Peak() float64 {
	var peak float64
	for _, frame := range s.Frames {
		for c := 0; c < s.channelSlots(); c++ {
			if v := math.Abs(frame[c]); v > peak {
				peak = v
			}
		}
	}
	return peak
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	out := s
	out.Frames = append([][2]float64(nil), s.Frames...)
	return out
}

// Equal reports whether both signals have the same shape and identical samples.
func (s Signal) Equal(other Signal) bool {
	if s.Channels != other.Channels || s.SampleRate != other.SampleRate || len(s.Frames) != len(other.Frames) {
		return false
	}
	for i := range s.Frames {
		if s.Frames[i] != other.Frames[i] {
			return false
		}
	}
	return true
}

func (s Signal) channelSlots() int {
	if s.Channels == 1 {
		return 1
	}
	return 2
}

func (s Signal) compatible(other Signal) error {
	switch {
	case s.SampleRate != other.SampleRate:
		return fmt.Errorf("sample rate mismatch: %d vs %d", s.SampleRate, other.SampleRate)
	case s.Channels != other.Channels:
		return fmt.Errorf("channel count mismatch: %d vs %d", s.Channels, other.Channels)
	case len(s.Frames) != len(other.Frames):
		return fmt.Errorf("length mismatch: %d vs %d frames", len(s.Frames), len(other.Frames))
	}
	return nil
}

// Sum returns the elementwise sum of the given signals, which must share
// sample rate, channel count and length. Inputs are not modified.
func Sum(signals ...Signal) (Signal, error) {
	if len(signals) == 0 {
		return Signal{}, errors.New("sum: no signals")
	}
	out := signals[0].Clone()
	for i, sig := range signals[1:] {
		if err := out.compatible(sig); err != nil {
			return Signal{}, fmt.Errorf("sum: signal %d: %w", i+1, err)
		}
		for j, frame := range sig.Frames {
			out.Frames[j][0] += frame[0]
			out.Frames[j][1] += frame[1]
		}
	}
	return out, nil
}
