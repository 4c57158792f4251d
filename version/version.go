// Package version extracts sortable version metadata from release-note
// filename stems such as "1.27.4" or "1.27.4.post1".
package version

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrPatternMismatch indicates a stem without a leading major.minor.patch
// numeric version. Every indexed filename must carry one; a mismatch is
// an error, never a silent skip.
var ErrPatternMismatch = errors.New("stem does not match major.minor.patch pattern")

var (
	numericVersion = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)
	candidateStem  = regexp.MustCompile(`rc\d+`)
	postStem       = regexp.MustCompile(`\.post\d+`)
)

// Rank orders releases sharing the same numeric version: release
// candidates sort before the final release, post releases after it.
type Rank int

// RankCandidate, RankFinal, and RankPost enumerate the ordering tiers.
const (
	RankCandidate Rank = iota
	RankFinal
	RankPost
)

// Record holds the sortable metadata derived from one release-note file.
type Record struct {
	// Major, Minor, and Patch are the numeric version components.
	Major int
	Minor int
	Patch int

	// Rank is the pre/final/post ordering tiebreaker.
	Rank Rank

	// Stem is the filename without its final extension.
	Stem string

	// Path is the file path relative to the output root.
	Path string
}

// Series returns the "major.minor" key this record groups under.
func (r Record) Series() string {
	return fmt.Sprintf("%d.%d", r.Major, r.Minor)
}

// Parse extracts a Record from a filename stem. The relative path is
// carried through unchanged for template consumption.
func Parse(stem, relPath string) (Record, error) {
	m := numericVersion.FindStringSubmatch(stem)
	if m == nil {
		return Record{}, fmt.Errorf("%w: %q", ErrPatternMismatch, stem)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, fmt.Errorf("parse major version of %q: %w", stem, err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Record{}, fmt.Errorf("parse minor version of %q: %w", stem, err)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Record{}, fmt.Errorf("parse patch version of %q: %w", stem, err)
	}

	return Record{
		Major: major,
		Minor: minor,
		Patch: patch,
		Rank:  rankOf(stem),
		Stem:  stem,
		Path:  relPath,
	}, nil
}

// SeriesKey extracts the "major.minor" key from a stem with the same
// failure semantics as Parse.
func SeriesKey(stem string) (string, error) {
	m := numericVersion.FindStringSubmatch(stem)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrPatternMismatch, stem)
	}
	return m[1] + "." + m[2], nil
}

// Stem strips the final extension from a filename, so "1.27.2.post1.md"
// yields "1.27.2.post1".
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// rankOf classifies a stem into its ordering tier. The markers may
// appear anywhere in the stem.
func rankOf(stem string) Rank {
	if candidateStem.MatchString(stem) {
		return RankCandidate
	}
	if postStem.MatchString(stem) {
		return RankPost
	}
	return RankFinal
}
