// Package dto provides the JSON shapes returned by the license HTTP handlers.
package dto

import (
	"time"

	licenseDomain "github.com/allisson/licenses/internal/license/domain"
)

// LicenseResponse describes the license currently loaded by the application.
type LicenseResponse struct {
	ID        string                         `json:"id"`
	Holder    string                         `json:"holder"`
	Subject   string                         `json:"subject"`
	Issuer    string                         `json:"issuer,omitempty"`
	IssuedAt  time.Time                      `json:"issued_at"`
	NotBefore time.Time                      `json:"not_before"`
	ExpiresAt *time.Time                     `json:"expires_at,omitempty"`
	Seats     int                            `json:"seats"`
	Features  []string                       `json:"features"`
	Metadata  map[string]licenseDomain.Value `json:"metadata"`
	Valid     bool                           `json:"valid"`
}

// MapLicenseToResponse converts a verified license to an API response. Valid reports
// whether now falls inside the validity window. Fails if the license was tampered with.
func MapLicenseToResponse(l *licenseDomain.License, now time.Time) (LicenseResponse, error) {
	params, err := l.Params()
	if err != nil {
		return LicenseResponse{}, err
	}

	response := LicenseResponse{
		ID:        params.ID.String(),
		Holder:    params.Holder,
		Subject:   params.Subject,
		Issuer:    params.Issuer,
		IssuedAt:  params.IssuedAt,
		NotBefore: params.NotBefore,
		Seats:     params.Seats,
		Features:  params.Features,
		Metadata:  params.Metadata,
		Valid:     l.IsValidAt(now),
	}
	if !l.Perpetual() {
		expiresAt := params.ExpiresAt
		response.ExpiresAt = &expiresAt
	}
	if response.Features == nil {
		response.Features = []string{}
	}
	if response.Metadata == nil {
		response.Metadata = map[string]licenseDomain.Value{}
	}
	return response, nil
}

// IssuedLicenseResponse represents a ledger record. SignedLicense is the wire form that
// can be redistributed to the holder.
type IssuedLicenseResponse struct {
	ID                 string     `json:"id"`
	Holder             string     `json:"holder"`
	Subject            string     `json:"subject"`
	Features           []string   `json:"features"`
	Seats              int        `json:"seats"`
	IssuedAt           time.Time  `json:"issued_at"`
	NotBefore          time.Time  `json:"not_before"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	SignatureAlgorithm string     `json:"signature_algorithm"`
	SignedLicense      string     `json:"signed_license"`
	CreatedAt          time.Time  `json:"created_at"`
}

// MapIssuedLicenseToResponse converts a ledger record to an API response.
func MapIssuedLicenseToResponse(issued *licenseDomain.IssuedLicense) IssuedLicenseResponse {
	features := issued.Features
	if features == nil {
		features = []string{}
	}
	return IssuedLicenseResponse{
		ID:                 issued.ID.String(),
		Holder:             issued.Holder,
		Subject:            issued.Subject,
		Features:           features,
		Seats:              issued.Seats,
		IssuedAt:           issued.IssuedAt,
		NotBefore:          issued.NotBefore,
		ExpiresAt:          issued.ExpiresAt,
		SignatureAlgorithm: issued.SignatureAlgorithm,
		SignedLicense:      issued.SignedLicense().String(),
		CreatedAt:          issued.CreatedAt,
	}
}

// ListIssuedLicensesResponse represents a page of ledger records.
type ListIssuedLicensesResponse struct {
	Data []IssuedLicenseResponse `json:"data"`
}

// MapIssuedLicensesToListResponse converts ledger records to a list API response.
func MapIssuedLicensesToListResponse(issued []*licenseDomain.IssuedLicense) ListIssuedLicensesResponse {
	data := make([]IssuedLicenseResponse, 0, len(issued))
	for _, il := range issued {
		data = append(data, MapIssuedLicenseToResponse(il))
	}
	return ListIssuedLicensesResponse{Data: data}
}
