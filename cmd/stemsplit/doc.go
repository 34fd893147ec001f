// Command stemsplit splits an audio file into stems with a Demucs model.
//
//	stemsplit song.flac -o ./stems --two-stems vocals --mp3
//
// Without a two-stem target every stem the model produces is written as
// <output>/<name>_<stem>.wav (or .mp3). With --two-stems X only
// <name>_X and <name>_no_X are written, the latter being the sum of every
// other stem.
//
// Subcommands:
//
//	check            report tool availability and the device a run would use
//	config init      write a sample configuration file
//	config validate  load and validate the configuration
package main
