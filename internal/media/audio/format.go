package audio

// Format selects the on-disk encoding of written stems.
type Format int

const (
	FormatWAV Format = iota
	FormatMP3
)

// FormatFor maps the compressed-output flag to a Format.
func FormatFor(compressed bool) Format {
	if compressed {
		return FormatMP3
	}
	return FormatWAV
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	if f == FormatMP3 {
		return "mp3"
	}
	return "wav"
}

func (f Format) String() string {
	return f.Extension()
}
