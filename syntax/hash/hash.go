package hash

import (
	"crypto/sha256"

	"github.com/chazu/skylark/syntax"
)

// HashFile computes the SHA-256 content hash of a parsed file.
//
// The hash is computed over a deterministic serialization of the AST.
// Source positions and the file path are excluded, so reformatting or
// renaming a file leaves its hash unchanged while any structural edit
// changes it.
func HashFile(f *syntax.File) [32]byte {
	return sha256.Sum256(Serialize(f))
}

// HashNode computes the SHA-256 content hash of a single AST node.
func HashNode(n syntax.Node) [32]byte {
	return sha256.Sum256(Serialize(n))
}
