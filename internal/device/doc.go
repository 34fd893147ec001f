// Package device picks the compute device the separator runs on.
//
// An explicit device always wins. Otherwise a Prober asks the execution
// environment whether an accelerator is usable and Select falls back to
// the CPU when it is not, or when the probe itself fails.
package device
