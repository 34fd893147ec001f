package audio

import (
	"fmt"
	"math"
	"strings"
)

// ClipMode controls how samples outside [-1, 1] are handled before encoding.
type ClipMode string

const (
	// ClipRescale divides the whole signal by max(1.01*peak, 1).
	ClipRescale ClipMode = "rescale"
	// ClipClamp clamps each sample to [-1, 1].
	ClipClamp ClipMode = "clamp"
	// ClipNone leaves samples untouched; the WAV encoder still clamps on write.
	ClipNone ClipMode = "none"
)

// ParseClipMode validates a clip mode name. Empty selects ClipRescale.
func ParseClipMode(value string) (ClipMode, error) {
	switch mode := ClipMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return ClipRescale, nil
	case ClipRescale, ClipClamp, ClipNone:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown clip mode %q", value)
	}
}

// Clip applies mode to sig and returns the result. The input is not modified.
func Clip(sig Signal, mode ClipMode) Signal {
	switch mode {
	case ClipRescale:
		// 1.01 keeps rounded samples below full scale.
		scale := 1 / math.Max(1.01*sig.Peak(), 1)
		if scale == 1 {
			return sig
		}
		out := sig.Clone()
		for i := range out.Frames {
			out.Frames[i][0] *= scale
			out.Frames[i][1] *= scale
		}
		return out
	case ClipClamp:
		out := sig.Clone()
		for i := range out.Frames {
			out.Frames[i][0] = clamp(out.Frames[i][0])
			out.Frames[i][1] = clamp(out.Frames[i][1])
		}
		return out
	default:
		return sig
	}
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
