package audio

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

const decodeChunkFrames = 4096

// DecodeWAV reads a complete PCM WAV stream into memory.
func DecodeWAV(r io.Reader) (Signal, error) {
	stream, format, err := wav.Decode(r)
	if err != nil {
		return Signal{}, fmt.Errorf("decode wav: %w", err)
	}
	defer stream.Close()

	sig := Signal{
		Channels:   format.NumChannels,
		SampleRate: int(format.SampleRate),
	}
	if n := stream.Len(); n > 0 {
		sig.Frames = make([][2]float64, 0, n)
	}

	buf := make([][2]float64, decodeChunkFrames)
	for {
		n, ok := stream.Stream(buf)
		sig.Frames = append(sig.Frames, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return Signal{}, fmt.Errorf("decode wav: %w", err)
	}
	if scale := decodeScale(format.Precision); scale != 1 {
		for i := range sig.Frames {
			sig.Frames[i][0] *= scale
			sig.Frames[i][1] *= scale
		}
	}
	return sig, nil
}

// decodeScale maps beep's decoded samples back to full scale. The v1 decoder
// divides N-bit integer samples by 2^N-1 rather than 2^(N-1), which halves
// the amplitude of 16 and 24 bit data.
func decodeScale(precision int) float64 {
	switch precision {
	case 2, 3:
		bits := float64(precision * 8)
		return (math.Exp2(bits) - 1) / math.Exp2(bits-1)
	default:
		return 1
	}
}

// DecodeWAVFile decodes the WAV file at path.
func DecodeWAVFile(path string) (Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return Signal{}, err
	}
	defer file.Close()

	sig, err := DecodeWAV(file)
	if err != nil {
		return Signal{}, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// EncodeWAV writes sig as integer PCM at the given sample rate and bit depth
// (16 or 24). The sample rate written is the one passed in, not sig.SampleRate.
func EncodeWAV(w io.WriteSeeker, sig Signal, sampleRate, bitDepth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("encode wav: invalid sample rate %d", sampleRate)
	}
	precision, err := precisionFor(bitDepth)
	if err != nil {
		return err
	}
	channels := sig.Channels
	if channels != 1 {
		channels = 2
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: channels,
		Precision:   precision,
	}
	if err := wav.Encode(w, &signalStreamer{frames: sig.Frames}, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// WriteWAVFile creates (or truncates) path and encodes sig into it.
func WriteWAVFile(path string, sig Signal, sampleRate, bitDepth int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWAV(file, sig, sampleRate, bitDepth); err != nil {
		_ = file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}

func precisionFor(bitDepth int) (int, error) {
	switch bitDepth {
	case 16:
		return 2, nil
	case 24:
		return 3, nil
	default:
		return 0, fmt.Errorf("encode wav: unsupported bit depth %d", bitDepth)
	}
}

// signalStreamer adapts a frame slice to beep.Streamer.
type signalStreamer struct {
	frames [][2]float64
	pos    int
}

func (s *signalStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}
	n := copy(samples, s.frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *signalStreamer) Err() error {
	return nil
}
