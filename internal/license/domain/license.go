// Package domain defines the license model: the License grant, its signed form,
// metadata values, feature restrictions and the issued-license ledger record.
//
// A License is immutable once built. Its feature set and metadata are held in
// tamper-evident collections, so code that reaches the backing storage through
// reflection or unsafe is detected on the next read instead of silently changing
// what the license grants.
package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/licenses/internal/immutable"
	customValidation "github.com/allisson/licenses/internal/validation"
)

// Params holds the attributes of a license to be built.
//
// Zero values pick defaults: a new UUIDv7 ID, IssuedAt = now, NotBefore = IssuedAt,
// ExpiresAt = never and Seats = unlimited.
type Params struct {
	ID        uuid.UUID        `json:"id"`
	Holder    string           `json:"holder"`
	Subject   string           `json:"subject"`
	Issuer    string           `json:"issuer"`
	IssuedAt  time.Time        `json:"issued_at"`
	NotBefore time.Time        `json:"not_before"`
	ExpiresAt time.Time        `json:"expires_at"`
	Seats     int              `json:"seats"`
	Features  []string         `json:"features"`
	Metadata  map[string]Value `json:"metadata"`
}

// Validate checks the parameters after defaults have been applied.
func (p *Params) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Holder,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&p.Subject,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&p.Issuer, validation.Length(0, 255)),
		validation.Field(&p.Seats, validation.Min(0)),
		validation.Field(&p.ExpiresAt, validation.By(func(value interface{}) error {
			exp, _ := value.(time.Time)
			if !exp.IsZero() && !exp.After(p.NotBefore) {
				return validation.NewError("validation_expires_at", "must be after not_before")
			}
			return nil
		})),
		validation.Field(&p.Features, validation.Each(validation.Required, customValidation.FeatureName)),
		validation.Field(&p.Metadata, validation.By(validateMetadata)),
	)
}

func validateMetadata(value interface{}) error {
	m, _ := value.(map[string]Value)
	for k, v := range m {
		if k == "" || len(k) > 255 {
			return validation.NewError("validation_metadata_key", "keys must be 1-255 characters")
		}
		if !v.IsValid() {
			return validation.NewError("validation_metadata_value", fmt.Sprintf("value of %q is not set", k))
		}
	}
	return nil
}

// License is an immutable grant of features to a holder for a product (Subject)
// within a validity window.
type License struct {
	id        uuid.UUID
	holder    string
	subject   string
	issuer    string
	issuedAt  time.Time
	notBefore time.Time
	expiresAt time.Time
	seats     int
	features  *immutable.Set[string]
	metadata  *immutable.Map[string, Value]
}

// NewLicense applies defaults to p, validates it and builds a License. Timestamps are
// normalized to UTC with second precision.
func NewLicense(p Params) (*License, error) {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate license id: %w", err)
		}
		p.ID = id
	}
	p.IssuedAt = normalizeTime(p.IssuedAt)
	if p.IssuedAt.IsZero() {
		p.IssuedAt = normalizeTime(time.Now())
	}
	p.NotBefore = normalizeTime(p.NotBefore)
	if p.NotBefore.IsZero() {
		p.NotBefore = p.IssuedAt
	}
	p.ExpiresAt = normalizeTime(p.ExpiresAt)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLicense, err)
	}

	features := make(map[string]struct{}, len(p.Features))
	for _, f := range p.Features {
		features[f] = struct{}{}
	}

	return &License{
		id:        p.ID,
		holder:    p.Holder,
		subject:   p.Subject,
		issuer:    p.Issuer,
		issuedAt:  p.IssuedAt,
		notBefore: p.NotBefore,
		expiresAt: p.ExpiresAt,
		seats:     p.Seats,
		features:  immutable.WrapSet(features),
		metadata:  immutable.WrapMap(maps.Clone(p.Metadata)),
	}, nil
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Second)
}

// ID returns the unique license identifier.
func (l *License) ID() uuid.UUID { return l.id }

// Holder returns the licensee.
func (l *License) Holder() string { return l.holder }

// Subject returns the licensed product.
func (l *License) Subject() string { return l.subject }

// Issuer returns the licensor, possibly empty.
func (l *License) Issuer() string { return l.issuer }

// IssuedAt returns the issue time.
func (l *License) IssuedAt() time.Time { return l.issuedAt }

// NotBefore returns the start of the validity window.
func (l *License) NotBefore() time.Time { return l.notBefore }

// ExpiresAt returns the end of the validity window; the zero time means perpetual.
func (l *License) ExpiresAt() time.Time { return l.expiresAt }

// Perpetual reports whether the license never expires.
func (l *License) Perpetual() bool { return l.expiresAt.IsZero() }

// Seats returns the number of licensed seats; 0 means unlimited.
func (l *License) Seats() int { return l.seats }

// Features returns the read-only granted feature set.
func (l *License) Features() *immutable.Set[string] { return l.features }

// Metadata returns the read-only metadata map.
func (l *License) Metadata() *immutable.Map[string, Value] { return l.metadata }

// FeatureNames returns the granted features sorted by name.
func (l *License) FeatureNames() ([]string, error) {
	names, err := l.features.Slice()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// HasFeature reports whether name is granted.
func (l *License) HasFeature(name string) (bool, error) {
	return l.features.Contains(name)
}

// Satisfies evaluates r against the granted features.
func (l *License) Satisfies(r FeatureRestriction) (bool, error) {
	return r.Evaluate(l.features)
}

// IsValidAt reports whether t falls inside [NotBefore, ExpiresAt).
func (l *License) IsValidAt(t time.Time) bool {
	if t.Before(l.notBefore) {
		return false
	}
	return !l.IsExpired(t)
}

// IsExpired reports whether the license has expired at t.
func (l *License) IsExpired(t time.Time) bool {
	return !l.expiresAt.IsZero() && !t.Before(l.expiresAt)
}

// Err returns ErrTamperDetected if either collection was modified out-of-band.
func (l *License) Err() error {
	if err := l.features.Err(); err != nil {
		return err
	}
	return l.metadata.Err()
}

// Params returns the license attributes as fresh, mutable Params.
func (l *License) Params() (Params, error) {
	features, err := l.FeatureNames()
	if err != nil {
		return Params{}, err
	}
	metadata, err := l.metadata.Clone()
	if err != nil {
		return Params{}, err
	}
	return Params{
		ID:        l.id,
		Holder:    l.holder,
		Subject:   l.subject,
		Issuer:    l.issuer,
		IssuedAt:  l.issuedAt,
		NotBefore: l.notBefore,
		ExpiresAt: l.expiresAt,
		Seats:     l.seats,
		Features:  features,
		Metadata:  metadata,
	}, nil
}

// Equal reports whether both licenses carry the same attributes.
func (l *License) Equal(other *License) (bool, error) {
	if other == nil {
		return false, nil
	}
	if l.id != other.id ||
		l.holder != other.holder ||
		l.subject != other.subject ||
		l.issuer != other.issuer ||
		!l.issuedAt.Equal(other.issuedAt) ||
		!l.notBefore.Equal(other.notBefore) ||
		!l.expiresAt.Equal(other.expiresAt) ||
		l.seats != other.seats {
		if err := l.Err(); err != nil {
			return false, err
		}
		return false, other.Err()
	}
	eq, err := l.features.Equal(other.features)
	if err != nil || !eq {
		return false, err
	}
	return l.metadata.Equal(other.metadata)
}
