package keyhash

import "hash/fnv"

// Sum returns a non-negative hash of the identifier, suitable for bucket
// selection.
func Sum(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() & 0x7fffffff)
}
