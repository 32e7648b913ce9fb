package version

import (
	"math"
	"strconv"
	"strings"
)

// Key is the parsed, comparable form of a release version string.
//
// Zero values: a Key parsed from "" is {0, 0, 0, ""}.
type Key struct {
	Major        int
	FeatureGroup int
	Feature      int
	Bugfix       string
}

// Parse splits s on "." and builds a Key from the first four tokens.
//
// Numeric tokens are read like a lenient integer conversion: leading digits
// are used, anything else yields 0 ("2b" is 2, "x" is 0). Tokens after the
// fourth are ignored. Parse never fails.
func Parse(s string) Key {
	parts := strings.Split(s, ".")
	token := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return Key{
		Major:        leadingInt(token(0)),
		FeatureGroup: leadingInt(token(1)),
		Feature:      leadingInt(token(2)),
		Bugfix:       token(3),
	}
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, equal to,
// or after other.
func (k Key) Compare(other Key) int {
	if c := compareInt(k.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(k.FeatureGroup, other.FeatureGroup); c != 0 {
		return c
	}
	if c := compareInt(k.Feature, other.Feature); c != 0 {
		return c
	}
	return strings.Compare(k.Bugfix, other.Bugfix)
}

// String renders the key in its canonical four-part form, e.g. "5.1.0.".
func (k Key) String() string {
	return strconv.Itoa(k.Major) + "." + strconv.Itoa(k.FeatureGroup) + "." +
		strconv.Itoa(k.Feature) + "." + k.Bugfix
}

// Compare parses both version strings and compares their keys.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}

// Less reports whether version a sorts strictly before version b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// leadingInt parses an optional sign followed by digits and stops at the
// first non-digit. Surrounding whitespace is ignored. Values beyond the int
// range saturate at math.MaxInt (or -math.MaxInt).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
