// Package version defines the ordered version keys used to route a pack
// conversion from one game version to another.
//
// Version strings follow the "1.<major>[.<minor>]" form used by resource
// packs (e.g. "1.19.4", "1.21"). Keys compare component-wise, so "1.20.2"
// sorts below "1.20.10" — a plain numeric parse of the suffix would get
// that wrong.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a comparable, structured version identifier. Missing trailing
// components compare as zero, so "1.21" equals "1.21.0".
type Key struct {
	parts [3]int
	raw   string
}

// Parse converts a version string such as "1.19.4" into a Key.
func Parse(s string) (Key, error) {
	fields := strings.Split(s, ".")
	if len(fields) < 2 || len(fields) > 3 {
		return Key{}, fmt.Errorf("invalid version %q: want 1.<major>[.<minor>]", s)
	}

	var k Key
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Key{}, fmt.Errorf("invalid version %q: component %q is not a number", s, f)
		}
		k.parts[i] = n
	}
	k.raw = s
	return k, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Compare returns -1, 0 or +1 as k sorts before, equal to, or after other.
func (k Key) Compare(other Key) int {
	for i := range k.parts {
		switch {
		case k.parts[i] < other.parts[i]:
			return -1
		case k.parts[i] > other.parts[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool { return k.Compare(other) < 0 }

// Equal reports whether both keys denote the same version, ignoring how
// many components were written out ("1.21" == "1.21.0").
func (k Key) Equal(other Key) bool { return k.Compare(other) == 0 }

// String returns the version string the key was parsed from.
func (k Key) String() string { return k.raw }

// Between reports whether k lies strictly after from and at or before to,
// in whichever direction from→to runs. It is the membership test for
// conversion plans: a config qualifies when its key is on the path.
func (k Key) Between(from, to Key) bool {
	if from.Less(to) {
		return from.Less(k) && k.Compare(to) <= 0
	}
	return k.Less(from) && k.Compare(to) >= 0
}
