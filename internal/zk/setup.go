// Package zk proves single shot answers against a committed fleet layout
// with groth16 over BN254.
package zk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// ShotPublic is what a verifier learns from one proof.
type ShotPublic struct {
	Root  *big.Int `json:"root"`
	Index int      `json:"index"`
	Hit   uint8    `json:"hit"`
}

// ShotWitness is the defender's private view of one answer.
type ShotWitness struct {
	Bit   uint8
	Index int
	Path  []*big.Int
	Salt  *big.Int
	Root  *big.Int
}

// Keys bundles the compiled circuit with its proving and verifying keys.
type Keys struct {
	CS constraint.ConstraintSystem
	PK groth16.ProvingKey
	VK groth16.VerifyingKey
}

func compile() (constraint.ConstraintSystem, error) {
	var circuit ShotCircuit
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
}

// Setup compiles the circuit and runs a fresh in-memory trusted setup.
func Setup() (*Keys, error) {
	cs, err := compile()
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, err
	}
	return &Keys{CS: cs, PK: pk, VK: vk}, nil
}

// EnsureShotKeys loads shot.pk/shot.vk from dir, generating and writing them
// when either is missing or unreadable.
func EnsureShotKeys(dir string) (*Keys, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	vkPath := filepath.Join(dir, "shot.vk")
	pkPath := filepath.Join(dir, "shot.pk")

	if vk, pk, err := readKeys(vkPath, pkPath); err == nil {
		cs, err := compile()
		if err != nil {
			return nil, err
		}
		return &Keys{CS: cs, PK: pk, VK: vk}, nil
	}

	k, err := Setup()
	if err != nil {
		return nil, err
	}
	if err := writeKey(vkPath, k.VK); err != nil {
		return nil, err
	}
	if err := writeKey(pkPath, k.PK); err != nil {
		return nil, err
	}
	return k, nil
}

// ProveShot proves w and returns the serialized proof.
func (k *Keys) ProveShot(w ShotWitness) ([]byte, ShotPublic, error) {
	if len(w.Path) != MerkleDepth {
		return nil, ShotPublic{}, fmt.Errorf("path has %d levels, want %d", len(w.Path), MerkleDepth)
	}

	var assign ShotCircuit
	assign.Bit = w.Bit
	for i := 0; i < MerkleDepth; i++ {
		assign.Path[i] = w.Path[i]
	}
	assign.Salt = w.Salt
	assign.Root = w.Root
	assign.Index = w.Index
	assign.Hit = w.Bit

	fullWit, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, ShotPublic{}, err
	}
	proof, err := groth16.Prove(k.CS, k.PK, fullWit)
	if err != nil {
		return nil, ShotPublic{}, err
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, ShotPublic{}, err
	}
	return buf.Bytes(), ShotPublic{Root: new(big.Int).Set(w.Root), Index: w.Index, Hit: w.Bit}, nil
}

// VerifyShot checks a proof against the commitment the verifier already
// trusts; the root carried in pub must match it.
func VerifyShot(vk groth16.VerifyingKey, proofBin []byte, pub ShotPublic, root *big.Int) error {
	if pub.Root == nil {
		return errors.New("proof payload missing public root")
	}
	if pub.Root.Cmp(root) != 0 {
		return errors.New("root mismatch: proof is for another commitment")
	}
	if pub.Hit != 0 && pub.Hit != 1 {
		return errors.New("invalid hit public output")
	}

	var pubAssign ShotCircuit
	pubAssign.Root = root
	pubAssign.Index = pub.Index
	pubAssign.Hit = pub.Hit

	pubWit, err := frontend.NewWitness(&pubAssign, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}
	pr := groth16.NewProof(ecc.BN254)
	if _, err := pr.ReadFrom(bytes.NewReader(proofBin)); err != nil {
		return err
	}
	return groth16.Verify(pr, vk, pubWit)
}

// ReadVerifyingKey loads a verifying key written by EnsureShotKeys.
func ReadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	_, err = vk.ReadFrom(f)
	return vk, err
}

func readProvingKey(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pk := groth16.NewProvingKey(ecc.BN254)
	_, err = pk.ReadFrom(f)
	return pk, err
}

func readKeys(vkPath, pkPath string) (groth16.VerifyingKey, groth16.ProvingKey, error) {
	vk, err := ReadVerifyingKey(vkPath)
	if err != nil {
		return nil, nil, err
	}
	pk, err := readProvingKey(pkPath)
	if err != nil {
		return nil, nil, err
	}
	return vk, pk, nil
}

func writeKey(path string, k io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = k.WriteTo(f)
	return err
}
