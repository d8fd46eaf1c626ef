// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/licenses/internal/errors"
)

// MaxFeatureNameLength bounds the length of a feature name.
const MaxFeatureNameLength = 128

var (
	// featureNameRegex allows identifiers such as "export", "reports.pdf" or "sso:saml".
	featureNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:\-]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// FeatureName validates a licensed feature identifier.
var FeatureName = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= MaxFeatureNameLength && featureNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_feature_name",
		"must start with a letter or digit and contain only letters, digits, '.', '_', ':' or '-'",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
