package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/licenses/internal/errors"
	licenseDomain "github.com/allisson/licenses/internal/license/domain"
	"github.com/allisson/licenses/internal/license/http/dto"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
	"github.com/allisson/licenses/internal/license/usecase/mocks"
)

const testAttributes = `{
	"holder": "Acme Corp",
	"subject": "analytics",
	"issued_at": "2026-01-01T00:00:00Z",
	"expires_at": "2027-01-01T00:00:00Z",
	"seats": 25,
	"features": ["reports", "export"],
	"metadata": {"tier": "gold", "max_projects": 10}
}`

func TestRunSignAndVerifyLicense(t *testing.T) {
	l := newLicensing(t)
	signed := l.signLicense(t, testAttributes)
	require.True(t, strings.HasPrefix(signed, "v1:"))

	t.Run("verify-text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVerifyLicense(
			context.Background(),
			l.verifier(t),
			discardLogger(),
			IOTuple{Reader: strings.NewReader(signed + "\n"), Writer: &out},
			"-",
			FormatText,
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		text := out.String()
		assert.Contains(t, text, "Holder:      Acme Corp")
		assert.Contains(t, text, "Expires at:  2027-01-01T00:00:00Z")
		assert.Contains(t, text, "Seats:       25")
		assert.Contains(t, text, "Features:    export, reports")
		assert.Contains(t, text, "Metadata:    max_projects=10")
		assert.Contains(t, text, "Metadata:    tier=gold")
		assert.Contains(t, text, "Valid:       true")
	})

	t.Run("verify-json-output-from-file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "license.txt")
		require.NoError(t, os.WriteFile(path, []byte(signed), 0o600))

		var out bytes.Buffer
		err := RunVerifyLicense(
			context.Background(),
			l.verifier(t),
			discardLogger(),
			IOTuple{Reader: strings.NewReader(""), Writer: &out},
			path,
			FormatJSON,
			time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		var response dto.LicenseResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.Equal(t, "Acme Corp", response.Holder)
		assert.Equal(t, []string{"export", "reports"}, response.Features)
		assert.False(t, response.Valid)
	})

	t.Run("verify-tampered", func(t *testing.T) {
		tampered := []byte(signed)
		i := len("v1:") + 10
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}

		err := RunVerifyLicense(
			context.Background(),
			l.verifier(t),
			discardLogger(),
			IOTuple{Reader: bytes.NewReader(tampered), Writer: &bytes.Buffer{}},
			"-",
			FormatText,
			time.Now(),
		)
		require.Error(t, err)
		kind := apperrors.KindOf(err)
		assert.True(t, kind == apperrors.KindSignatureInvalid || kind == apperrors.KindPayloadCorrupt, kind.String())
	})
}

func TestRunSignLicense_Errors(t *testing.T) {
	tests := []struct {
		name    string
		attrs   string
		format  string
		wantErr string
	}{
		{"empty-input", "", FormatText, "license attributes are empty"},
		{"unknown-field", `{"holder":"a","subject":"b","sets":3}`, FormatText, "unknown field"},
		{"missing-holder", `{"subject":"b"}`, FormatText, "invalid license"},
		{"invalid-format", `{}`, "yaml", "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &mocks.MockIssuer{}
			err := RunSignLicense(
				context.Background(),
				issuer,
				discardLogger(),
				IOTuple{Reader: strings.NewReader(tt.attrs), Writer: &bytes.Buffer{}},
				SignLicenseOptions{Input: "-", Format: tt.format},
			)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			issuer.AssertNotCalled(t, "SignLicense", mock.Anything, mock.Anything)
		})
	}
}

func TestRunSignLicense_JSONOutput(t *testing.T) {
	signed := licenseDomain.NewSignedLicense([]byte("data"), []byte("sig"))
	issuer := &mocks.MockIssuer{}
	issuer.On("SignLicense", mock.Anything, mock.AnythingOfType("*domain.License")).Return(signed, nil).Once()

	var out bytes.Buffer
	err := RunSignLicense(
		context.Background(),
		issuer,
		discardLogger(),
		IOTuple{Reader: strings.NewReader(testAttributes), Writer: &out},
		SignLicenseOptions{Input: "-", Format: FormatJSON},
	)
	require.NoError(t, err)

	var response map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &response))
	assert.Equal(t, signed.String(), response["signed_license"])
	_, err = uuid.Parse(response["id"])
	assert.NoError(t, err)
	issuer.AssertExpectations(t)
}

func newIssuedLicense(t *testing.T) *licenseDomain.IssuedLicense {
	t.Helper()
	l, err := licenseDomain.NewLicense(licenseDomain.Params{
		Holder:   "Acme Corp",
		Subject:  "analytics",
		IssuedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Features: []string{"reports"},
	})
	require.NoError(t, err)

	issued, err := licenseDomain.NewIssuedLicense(
		l,
		licenseDomain.NewSignedLicense([]byte("data"), []byte("sig")),
		"rsa-sha512",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return issued
}

func TestRunIssueLicense(t *testing.T) {
	issued := newIssuedLicense(t)

	t.Run("text-output", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		ledger.On("Issue", mock.Anything, mock.MatchedBy(func(p licenseDomain.Params) bool {
			return p.Holder == "Acme Corp" && p.Seats == 25
		})).Return(issued, nil).Once()

		var out bytes.Buffer
		err := RunIssueLicense(
			context.Background(),
			ledger,
			discardLogger(),
			IOTuple{Reader: strings.NewReader(testAttributes), Writer: &out},
			SignLicenseOptions{Input: "-", Format: FormatText},
		)
		require.NoError(t, err)
		assert.Equal(t, issued.SignedLicense().String()+"\n", out.String())
		ledger.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		ledger.On("Issue", mock.Anything, mock.Anything).Return(issued, nil).Once()

		var out bytes.Buffer
		err := RunIssueLicense(
			context.Background(),
			ledger,
			discardLogger(),
			IOTuple{Reader: strings.NewReader(testAttributes), Writer: &out},
			SignLicenseOptions{Input: "-", Format: FormatJSON},
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"signature_algorithm": "rsa-sha512"`)
		ledger.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		ledger.On("Issue", mock.Anything, mock.Anything).Return(nil, licenseDomain.ErrIssuedLicenseConflict).Once()

		err := RunIssueLicense(
			context.Background(),
			ledger,
			discardLogger(),
			IOTuple{Reader: strings.NewReader(testAttributes), Writer: &bytes.Buffer{}},
			SignLicenseOptions{Input: "-", Format: FormatText},
		)
		assert.ErrorIs(t, err, licenseDomain.ErrIssuedLicenseConflict)
	})
}

func TestRunCheckFeatures(t *testing.T) {
	l := newLicensing(t)
	signed := l.signLicense(t, `{
		"holder": "Acme Corp",
		"subject": "analytics",
		"issued_at": "2020-01-01T00:00:00Z",
		"features": ["reports", "export"]
	}`)

	tests := []struct {
		name     string
		operand  string
		features []string
		format   string
		wantOut  string
		wantErr  error
	}{
		{"and-granted", "and", []string{"reports", "export"}, FormatText, "granted", nil},
		{"and-denied", "and", []string{"reports", "audit"}, FormatText, "denied", licenseDomain.ErrFeatureNotLicensed},
		{"or-granted", "or", []string{"audit", "export"}, FormatText, "granted", nil},
		{"json-denied", "or", []string{"audit"}, FormatJSON, `"granted": false`, licenseDomain.ErrFeatureNotLicensed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := licenseUseCase.NewLicenseManager(l.verifier(t), discardLogger())

			var out bytes.Buffer
			err := RunCheckFeatures(
				context.Background(),
				manager,
				discardLogger(),
				IOTuple{Reader: strings.NewReader(signed), Writer: &out},
				"-",
				tt.operand,
				tt.features,
				tt.format,
			)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}

	t.Run("invalid-operand", func(t *testing.T) {
		manager := &mocks.MockLicenseManager{}
		err := RunCheckFeatures(
			context.Background(),
			manager,
			discardLogger(),
			IOTuple{Reader: strings.NewReader(signed), Writer: &bytes.Buffer{}},
			"-",
			"xor",
			[]string{"reports"},
			FormatText,
		)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		manager.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})

	t.Run("no-features", func(t *testing.T) {
		manager := &mocks.MockLicenseManager{}
		var out bytes.Buffer
		err := RunCheckFeatures(
			context.Background(),
			manager,
			discardLogger(),
			IOTuple{Reader: strings.NewReader(signed), Writer: &out},
			"-",
			"and",
			nil,
			FormatText,
		)
		assert.ErrorIs(t, err, licenseDomain.ErrInvalidFeatureRestriction)
		assert.NotContains(t, out.String(), "granted")
		manager.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})
}

func TestRunListLicenses(t *testing.T) {
	issued := newIssuedLicense(t)

	t.Run("text-output", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		ledger.On("List", mock.Anything, 0, 10).Return([]*licenseDomain.IssuedLicense{issued}, nil).Once()

		var out bytes.Buffer
		err := RunListLicenses(context.Background(), ledger, discardLogger(), IOTuple{Writer: &out}, 0, 10, FormatText)
		require.NoError(t, err)
		assert.Contains(t, out.String(), issued.ID.String())
		assert.Contains(t, out.String(), "never")
		assert.Contains(t, out.String(), "Total: 1 license(s)")
		ledger.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		ledger.On("List", mock.Anything, 5, 20).Return([]*licenseDomain.IssuedLicense{}, nil).Once()

		var out bytes.Buffer
		err := RunListLicenses(context.Background(), ledger, discardLogger(), IOTuple{Writer: &out}, 5, 20, FormatJSON)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[]}`, out.String())
	})

	t.Run("invalid-limit", func(t *testing.T) {
		ledger := &mocks.MockLedgerUseCase{}
		err := RunListLicenses(context.Background(), ledger, discardLogger(), IOTuple{Writer: &bytes.Buffer{}}, 0, 1000, FormatText)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		ledger.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
