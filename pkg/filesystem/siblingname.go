package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/eknkc/basex"

	"github.com/cdzombak/fileplan/pkg/random"
)

const (
	// siblingAlphabet is the alphabet used to encode random sibling name
	// suffixes. It is alphanumeric so that sibling paths are unsurprising to
	// find sitting next to their target in a directory listing.
	siblingAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// siblingSuffixLength is the number of alphanumeric characters in a
	// random sibling name suffix.
	siblingSuffixLength = 16
)

// siblingEncoding is the Base62 encoder used to render random sibling name
// suffixes. It is safe for concurrent use.
var siblingEncoding *basex.Encoding

func init() {
	if encoding, err := basex.NewEncoding(siblingAlphabet); err != nil {
		panic("unable to initialize sibling name encoder")
	} else {
		siblingEncoding = encoding
	}
}

// SiblingPath generates a path in the same directory as target with a random
// 16-character alphanumeric suffix attached to prefix. It's used to stage
// replacement content next to a target before the final rename that swaps it
// into place, guaranteeing that the staged content lives on the same device
// as target.
func SiblingPath(target, prefix string) (string, error) {
	suffix, err := random.New(random.CollisionResistantLength)
	if err != nil {
		return "", fmt.Errorf("unable to generate random suffix: %w", err)
	}
	encoded := siblingEncoding.Encode(suffix)
	if len(encoded) > siblingSuffixLength {
		encoded = encoded[:siblingSuffixLength]
	}
	name := prefix + encoded
	return filepath.Join(filepath.Dir(target), name), nil
}
