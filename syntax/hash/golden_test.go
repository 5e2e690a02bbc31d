package hash

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/skylark/syntax"
)

// TestGoldenFiles verifies that known programs produce expected hashes.
// If the golden files don't exist, they are created (first run).
// This prevents accidental format drift.
func TestGoldenFiles(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "simple_assignment",
			src:  "x = 42\n",
		},
		{
			name: "arithmetic",
			src:  "y = 1 + 2 * 3\n",
		},
		{
			name: "function_def",
			src:  "def add(x, y=1, *args, **kwargs):\n    return x + y\n",
		},
		{
			name: "if_chain",
			src:  "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n",
		},
		{
			name: "comprehension",
			src:  "xs = [y * 2 for y in items if y > 0]\n",
		},
		{
			name: "load",
			src:  `load("pkg.sky", "a", b="c")` + "\n",
		},
		{
			name: "collections",
			src:  `cfg = {"names": ["a", "b"], "pair": (1, 2)}` + "\n",
		},
	}

	goldenDir := filepath.Join("testdata")
	if err := os.MkdirAll(goldenDir, 0o755); err != nil {
		t.Fatalf("create testdata dir: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := syntax.Parse(tc.name+".sky", []byte(tc.src), nil)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			data := Serialize(f)
			h := HashFile(f)

			serializedHex := hex.EncodeToString(data)
			hashHex := hex.EncodeToString(h[:])

			goldenPath := filepath.Join(goldenDir, tc.name+".golden")
			expected, err := os.ReadFile(goldenPath)
			if err != nil {
				// First run: create golden file
				content := serializedHex + "\n" + hashHex + "\n"
				if writeErr := os.WriteFile(goldenPath, []byte(content), 0o644); writeErr != nil {
					t.Fatalf("write golden file: %v", writeErr)
				}
				t.Logf("created golden file: %s", goldenPath)
				return
			}

			lines := strings.Split(strings.TrimSpace(string(expected)), "\n")
			if len(lines) != 2 {
				t.Fatalf("golden file %s: expected 2 lines, got %d", goldenPath, len(lines))
			}

			if serializedHex != lines[0] {
				t.Errorf("serialized bytes mismatch:\n  got:  %s\n  want: %s", serializedHex, lines[0])
			}
			if hashHex != lines[1] {
				t.Errorf("hash mismatch:\n  got:  %s\n  want: %s", hashHex, lines[1])
			}
		})
	}
}

func TestHashIgnoresFormatting(t *testing.T) {
	// Same structure, different layout: identical hashes.
	a, err := syntax.Parse("a.sky", []byte("x = 1 + 2\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := syntax.Parse("b.sky", []byte("x   =   1   +   2   # comment\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if HashFile(a) != HashFile(b) {
		t.Errorf("reformatting changed the hash")
	}
}

func TestHashSeparatesStructure(t *testing.T) {
	srcs := []string{
		"x = 1\n",
		"x = 2\n",
		"y = 1\n",
		"x = (1)\n",
		"x = (1,)\n",
		"x = a in b\n",
		"x = a not in b\n",
	}

	seen := map[[32]byte]string{}
	for _, src := range srcs {
		f, err := syntax.Parse("t.sky", []byte(src), nil)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		h := HashFile(f)
		if prev, dup := seen[h]; dup {
			t.Errorf("hash collision between %q and %q", prev, src)
		}
		seen[h] = src
	}
}

func TestTagsAreUnique(t *testing.T) {
	tags := []byte{
		TagIdent, TagIntLit, TagStringLit, TagListExpr, TagDictExpr,
		TagComprehension, TagTupleExpr, TagParenExpr, TagCondExpr,
		TagUnaryExpr, TagBinaryExpr, TagDotExpr, TagCallExpr, TagIndexExpr,
		TagSliceExpr, TagForClause, TagIfClause, TagExprStmt, TagAssignStmt,
		TagReturnStmt, TagBranchStmt, TagLoadStmt, TagIfStmt, TagForStmt,
		TagDefStmt, TagFile, TagParam,
	}
	seen := map[byte]bool{TagReservedZero: true}
	for _, tag := range tags {
		if seen[tag] {
			t.Errorf("duplicate tag byte 0x%02X", tag)
		}
		seen[tag] = true
	}

	ops := map[byte]bool{}
	for tok, tag := range opTags {
		if ops[tag] {
			t.Errorf("duplicate operator tag 0x%02X for %v", tag, tok)
		}
		ops[tag] = true
	}
}
