// Package separator runs model-based source separation and returns the
// decoded stems.
//
// The Separator interface is the only boundary the pipeline sees. Demucs
// implements it by running an embedded Python helper against the demucs
// package, which writes each stem as a PCM WAV plus a manifest.json that
// records stem order, sample rate and a per-file gain used to restore
// samples outside [-1, 1]. The helper's working directory is removed once
// the stems are decoded.
package separator
