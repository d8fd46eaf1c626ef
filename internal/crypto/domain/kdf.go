package domain

import "fmt"

// KDF identifies the password-based key derivation function of a key envelope.
type KDF uint8

// KDFArgon2id is Argon2id (RFC 9106).
const KDFArgon2id KDF = 1

// Bounds applied to KDF parameters read from an envelope, so a forged envelope
// cannot demand unbounded memory or time.
const (
	MaxKDFTime      = 16
	MaxKDFMemoryKiB = 1 << 20
	MaxKDFThreads   = 64
	MinSaltSize     = 16
	MaxSaltSize     = 64
)

// KDFParams holds Argon2id cost parameters.
type KDFParams struct {
	Time      uint32 // Number of passes over memory
	MemoryKiB uint32 // Memory cost in KiB
	Threads   uint8  // Degree of parallelism
}

// DefaultKDFParams returns the RFC 9106 second recommended option (64 MiB, 3 passes, 4 lanes).
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

// Validate checks the parameters against the accepted bounds.
func (p KDFParams) Validate() error {
	if p.Time == 0 || p.Time > MaxKDFTime {
		return fmt.Errorf("%w: time must be between 1 and %d", ErrInvalidKDFParams, MaxKDFTime)
	}
	if p.Threads == 0 || p.Threads > MaxKDFThreads {
		return fmt.Errorf("%w: threads must be between 1 and %d", ErrInvalidKDFParams, MaxKDFThreads)
	}
	if p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > MaxKDFMemoryKiB {
		return fmt.Errorf(
			"%w: memory must be between %d and %d KiB",
			ErrInvalidKDFParams,
			8*uint32(p.Threads),
			MaxKDFMemoryKiB,
		)
	}
	return nil
}
