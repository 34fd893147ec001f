// Package compose turns separated stems into the list of files to write.
//
// Full mode emits one entry per stem in separator order, named
// <base>_<stem>.<ext>. Two-stem mode emits the target stem unchanged
// followed by <base>_no_<target>.<ext>, the sum of every other stem. The
// complement is omitted when no other stems exist; the target entry is
// omitted when the separator did not return it.
package compose

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"stemsplit/internal/media/audio"
	"stemsplit/internal/runconfig"
	"stemsplit/internal/separator"
)

// Entry is one file to write.
type Entry struct {
	Path   string
	Stem   string
	Signal audio.Signal
}

// OutputPlan is the ordered list of files for a run.
type OutputPlan []Entry

// Paths returns the planned file paths in order.
func (p OutputPlan) Paths() []string {
	paths := make([]string, len(p))
	for i, entry := range p {
		paths[i] = entry.Path
	}
	return paths
}

// ComplementName returns the stem label of the two-stem complement.
func ComplementName(target runconfig.TwoStemTarget) string {
	return "no_" + string(target)
}

// Build derives the output plan for stems under cfg.
func Build(stems separator.StemMap, cfg runconfig.RunConfig) (OutputPlan, error) {
	base := BaseName(cfg.InputPath)
	ext := cfg.Format.Extension()
	path := func(label string) string {
		return joinOutput(cfg.OutputDir, fmt.Sprintf("%s_%s.%s", base, label, ext))
	}

	if !cfg.TwoStemMode() {
		plan := make(OutputPlan, 0, len(stems))
		for _, stem := range stems {
			plan = append(plan, Entry{Path: path(stem.Name), Stem: stem.Name, Signal: stem.Signal})
		}
		return plan, nil
	}

	target := string(cfg.TwoStems)
	plan := make(OutputPlan, 0, 2)
	if sig, ok := stems.Get(target); ok {
		plan = append(plan, Entry{Path: path(target), Stem: target, Signal: sig})
	}

	complement, ok, err := Complement(stems, target)
	if err != nil {
		return nil, err
	}
	if ok {
		label := ComplementName(cfg.TwoStems)
		plan = append(plan, Entry{Path: path(label), Stem: label, Signal: complement})
	}
	return plan, nil
}

// joinOutput appends name to dir without cleaning dir, so the reported path
// keeps the prefix the user typed ("./out/x.wav", not "out/x.wav").
func joinOutput(dir, name string) string {
	switch {
	case dir == "":
		return name
	case strings.HasSuffix(dir, string(filepath.Separator)):
		return dir + name
	default:
		return dir + string(filepath.Separator) + name
	}
}

// Complement sums every stem except exclude. Stems are added in name order
// so the result does not depend on separator order. ok is false when no
// other stems exist.
func Complement(stems separator.StemMap, exclude string) (audio.Signal, bool, error) {
	others := make([]separator.Stem, 0, len(stems))
	for _, stem := range stems {
		if stem.Name != exclude {
			others = append(others, stem)
		}
	}
	if len(others) == 0 {
		return audio.Signal{}, false, nil
	}
	slices.SortFunc(others, func(a, b separator.Stem) int {
		return strings.Compare(a.Name, b.Name)
	})

	signals := make([]audio.Signal, len(others))
	for i, stem := range others {
		signals[i] = stem.Signal
	}
	sum, err := audio.Sum(signals...)
	if err != nil {
		return audio.Signal{}, false, fmt.Errorf("mix complement of %s: %w", exclude, err)
	}
	return sum, true, nil
}

// BaseName returns the final path element without its last suffix. A
// leading dot alone is not a suffix, so ".hidden" stays ".hidden", and a
// trailing dot is kept.
func BaseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	i := strings.LastIndex(name, ".")
	if i > 0 && i < len(name)-1 {
		return name[:i]
	}
	return name
}
