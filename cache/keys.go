package cache

import (
	"strconv"
	"strings"
)

// physicalKey embeds the namespace and the key's current version into the
// stored key. Bumping the version makes every previously issued physical key
// unreachable; superseded entries expire via their own TTL.
func physicalKey(ns, logical string, version uint64) string {
	return ns + ":" + logical + ":v" + strconv.FormatUint(version, 10)
}

// tagOf returns the segment of the logical key before the first separator,
// or the whole key when it contains none.
func tagOf(logical string, sep byte) string {
	if i := strings.IndexByte(logical, sep); i >= 0 {
		return logical[:i]
	}
	return logical
}
