package separator

import (
	"stemsplit/internal/media/audio"
)

// Stem is one named source returned by a separator.
type Stem struct {
	Name   string
	Signal audio.Signal
}

// StemMap holds stems in the order the separator returned them.
type StemMap []Stem

// Names returns stem names in separator order.
func (m StemMap) Names() []string {
	names := make([]string, len(m))
	for i, stem := range m {
		names[i] = stem.Name
	}
	return names
}

// Get returns the stem called name.
func (m StemMap) Get(name string) (audio.Signal, bool) {
	for _, stem := range m {
		if stem.Name == name {
			return stem.Signal, true
		}
	}
	return audio.Signal{}, false
}

// Result is the output of one separation.
type Result struct {
	// Origin is the input as the model saw it, after resampling.
	Origin audio.Signal
	Stems  StemMap
	// SampleRate is the rate every output must be written at.
	SampleRate int
}
