// Package merkle commits to a hidden fleet layout: one MiMC leaf per square,
// folded into a fixed-size binary tree whose root is salted before it is
// published.
package merkle

import (
	"errors"
	"fmt"
	"math/big"

	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// BN254 field elements are written as 32-byte big-endian.
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func bytesToFE(b []byte) *big.Int { return new(big.Int).SetBytes(b) }

// HashLeafMiMC matches the in-circuit leaf hash of one occupancy bit.
func HashLeafMiMC(bit uint8) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetUint64(uint64(bit))))
	return bytesToFE(h.Sum(nil))
}

func HashNodeMiMC(left, right *big.Int) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(left))
	h.Write(feBytes(right))
	return bytesToFE(h.Sum(nil))
}

// Tree is stored level by level: Levels[0] are leaves, Levels[Depth] the root.
type Tree struct {
	Depth  int          `json:"depth"`
	Levels [][]*big.Int `json:"levels"`
}

// SizeFor is the smallest power of two holding n leaves.
func SizeFor(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BuildFixedTree hashes bits into a tree of exactly size leaves, padding
// the tail with the zero-bit leaf.
func BuildFixedTree(bits []uint8, size int) (*Tree, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, errors.New("size must be power of two")
	}
	if len(bits) > size {
		return nil, fmt.Errorf("%d leaves do not fit a tree of %d", len(bits), size)
	}

	pad := HashLeafMiMC(0)
	leaves := make([]*big.Int, size)
	for i := range leaves {
		if i < len(bits) {
			leaves[i] = HashLeafMiMC(bits[i])
		} else {
			leaves[i] = new(big.Int).Set(pad)
		}
	}
	levels := [][]*big.Int{leaves}

	for n := size; n > 1; n /= 2 {
		prev := levels[len(levels)-1]
		up := make([]*big.Int, n/2)
		for i := range up {
			up[i] = HashNodeMiMC(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, up)
	}
	return &Tree{Depth: len(levels) - 1, Levels: levels}, nil
}

func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[len(t.Levels)-1][0]) }

// SaltedRoot is the published commitment MiMC(salt, root).
func (t *Tree) SaltedRoot(salt *big.Int) *big.Int { return HashNodeMiMC(salt, t.Root()) }

// Path returns sibling hashes and direction bits for leaf idx, bottom up.
// dir[i]=0 means the running node is a left child; 1 means right.
func (t *Tree) Path(idx int) (path []*big.Int, dir []uint8, err error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, nil, fmt.Errorf("leaf %d out of range", idx)
	}
	path = make([]*big.Int, 0, t.Depth)
	dir = make([]uint8, 0, t.Depth)
	cur := idx
	for level := 0; level < t.Depth; level++ {
		sib := cur ^ 1
		path = append(path, new(big.Int).Set(t.Levels[level][sib]))
		dir = append(dir, uint8(cur&1))
		cur /= 2
	}
	return path, dir, nil
}

// VerifyPath recomputes the salted root from a leaf bit and its path.
func VerifyPath(bit uint8, path []*big.Int, dir []uint8, salt, saltedRoot *big.Int) bool {
	if len(path) != len(dir) {
		return false
	}
	cur := HashLeafMiMC(bit)
	for i := range path {
		if dir[i] == 1 {
			cur = HashNodeMiMC(path[i], cur)
		} else {
			cur = HashNodeMiMC(cur, path[i])
		}
	}
	return HashNodeMiMC(salt, cur).Cmp(saltedRoot) == 0
}
