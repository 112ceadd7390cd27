package filesystem

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes a fast content-addressable hash of the file at path.
// Two files with matching ContentHash results are treated as having equal
// content; the hash is streamed rather than buffering the whole file in
// memory.
func ContentHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open file for hashing: %w", err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, fmt.Errorf("unable to read file for hashing: %w", err)
	}

	return hasher.Sum64(), nil
}
