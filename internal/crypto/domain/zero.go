package domain

import (
	"crypto/rsa"
	"math/big"
)

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// IsZero reports whether every byte of b is zero.
func IsZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// DestroyPrivateKey overwrites the exported secret components of an RSA private key
// (D, the primes and the CRT values) in place. Copies the rsa package keeps in
// unexported fields are out of reach. Public components are left intact.
func DestroyPrivateKey(key *rsa.PrivateKey) {
	if key == nil {
		return
	}
	zeroInt(key.D)
	for _, p := range key.Primes {
		zeroInt(p)
	}
	zeroInt(key.Precomputed.Dp)
	zeroInt(key.Precomputed.Dq)
	zeroInt(key.Precomputed.Qinv)
	for i := range key.Precomputed.CRTValues {
		zeroInt(key.Precomputed.CRTValues[i].Exp)
		zeroInt(key.Precomputed.CRTValues[i].Coeff)
		zeroInt(key.Precomputed.CRTValues[i].R)
	}
}

// zeroInt clears the backing words of n and sets it to zero.
func zeroInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	n.SetInt64(0)
}
