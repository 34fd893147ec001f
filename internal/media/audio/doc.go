// Package audio holds the in-memory signal model shared by the separator,
// composer and writer, plus the codecs that move signals to and from disk.
//
// Signals follow beep's stream model: frames of two float64 samples in
// [-1, 1], with Channels recording whether the second slot carries a real
// channel. WAV data is decoded and encoded with github.com/faiface/beep/wav;
// MP3 output is produced by FFmpeg from a staged WAV file.
package audio
