// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version describes the version of the simplerpc module, reported by
// the bitcoindrpc command and sent as part of the HTTP User-Agent.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// semverAlphabet is an alphabet of all characters allowed in semver prerelease
// or build metadata identifiers, and the . separator.
const semverAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// Constants defining the module version number.
const (
	Major = 0
	Minor = 3
	Patch = 0
)

// Integer is an integer encoding of the major.minor.patch version.
const Integer = 1000000*Major + 10000*Minor + 100*Patch

// PreRelease contains the prerelease name of the module.  It is a variable
// so it can be modified at link time (e.g.
// `-ldflags "-X github.com/simplerpc/simplerpc/version.PreRelease=rc1"`).
// It must only contain characters from the semantic version alphabet.
var PreRelease = "pre"

// BuildMetadata defines additional build metadata.  It is modified at link time
// for official releases.  It must only contain characters from the semantic
// version alphabet.
var BuildMetadata = ""

func init() {
	if BuildMetadata == "" {
		BuildMetadata = vcsCommitID()
	}
}

// vcsCommitID returns the short revision recorded by the go command when the
// binary was built from a version control checkout, or the empty string.
func vcsCommitID() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if revision != "" && dirty {
		revision += ".dirty"
	}
	return revision
}

// String returns the module version as a properly formed string per the
// semantic versioning 2.0.0 rules (https://semver.org/).
func String() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

	// The hyphen and plus called for by semantic versioning are
	// added here and must not be part of the identifiers.  Identifiers
	// with invalid characters are stripped of them.
	if preRelease := normalizeVerString(PreRelease); preRelease != "" {
		version += "-" + preRelease
	}
	if buildMetadata := normalizeVerString(BuildMetadata); buildMetadata != "" {
		version += "+" + buildMetadata
	}
	return version
}

// normalizeVerString returns the passed string stripped of all characters which
// are not valid according to the semantic versioning guidelines for pre-release
// version and build metadata strings.
func normalizeVerString(str string) string {
	var b strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semverAlphabet, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
