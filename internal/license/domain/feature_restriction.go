package domain

import (
	"fmt"
	"slices"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/licenses/internal/immutable"
	customValidation "github.com/allisson/licenses/internal/validation"
)

// Operand combines the features of a FeatureRestriction.
type Operand string

const (
	// OperandAnd requires every named feature.
	OperandAnd Operand = "and"
	// OperandOr requires at least one named feature.
	OperandOr Operand = "or"
)

// ParseOperand converts "and"/"or" (case-insensitive) into an Operand.
func ParseOperand(s string) (Operand, error) {
	switch op := Operand(strings.ToLower(strings.TrimSpace(s))); op {
	case OperandAnd, OperandOr:
		return op, nil
	default:
		return "", fmt.Errorf("%w: unknown operand %q", ErrInvalidFeatureRestriction, s)
	}
}

// FeatureRestriction is a declarative requirement over a license's granted features.
//
// With OperandAnd every feature must be granted; an empty AND restriction is always
// satisfied. With OperandOr at least one must be granted; an empty OR restriction is
// never satisfied.
type FeatureRestriction struct {
	features []string
	operand  Operand
}

// Require returns an AND restriction over features.
func Require(features ...string) FeatureRestriction {
	return FeatureRestriction{features: slices.Clone(features), operand: OperandAnd}
}

// RequireAny returns an OR restriction over features.
func RequireAny(features ...string) FeatureRestriction {
	return FeatureRestriction{features: slices.Clone(features), operand: OperandOr}
}

// NewFeatureRestriction builds and validates a restriction.
func NewFeatureRestriction(operand Operand, features ...string) (FeatureRestriction, error) {
	r := FeatureRestriction{features: slices.Clone(features), operand: operand}
	if err := r.Validate(); err != nil {
		return FeatureRestriction{}, err
	}
	return r, nil
}

// Validate checks the operand and every feature name. At least one feature is required.
func (r FeatureRestriction) Validate() error {
	err := validation.Errors{
		"operand": validation.Validate(r.operand, validation.Required, validation.In(OperandAnd, OperandOr)),
		"features": validation.Validate(r.features,
			validation.Required,
			validation.Each(validation.Required, customValidation.FeatureName)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFeatureRestriction, err)
	}
	return nil
}

// Features returns a copy of the required feature names.
func (r FeatureRestriction) Features() []string {
	return slices.Clone(r.features)
}

// Operand returns how the features are combined. The zero restriction reports OperandAnd.
func (r FeatureRestriction) Operand() Operand {
	if r.operand == "" {
		return OperandAnd
	}
	return r.operand
}

// Evaluate reports whether granted satisfies the restriction. It fails when the
// restriction names no feature or granted fails its tamper check.
func (r FeatureRestriction) Evaluate(granted *immutable.Set[string]) (bool, error) {
	if len(r.features) == 0 {
		return false, fmt.Errorf("%w: no features named", ErrInvalidFeatureRestriction)
	}
	if granted == nil {
		granted = immutable.NewSet[string]()
	}
	if r.Operand() == OperandOr {
		return granted.ContainsAny(r.features...)
	}
	return granted.ContainsAll(r.features...)
}

// String renders the restriction, e.g. "export AND reports".
func (r FeatureRestriction) String() string {
	if len(r.features) == 0 {
		return fmt.Sprintf("<empty %s>", strings.ToUpper(string(r.Operand())))
	}
	return strings.Join(r.features, " "+strings.ToUpper(string(r.Operand()))+" ")
}
