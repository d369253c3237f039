package storage

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash digests the inputs of one conversion. Parts are length
// prefixed so that moving bytes between them changes the hash.
func ContentHash(parts ...[]byte) string {
	d := xxhash.New()
	for _, p := range parts {
		fmt.Fprintf(d, "%d:", len(p))
		_, _ = d.Write(p)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
