package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/licenses/internal/errors"
)

func TestSignedLicense_TextForm(t *testing.T) {
	signed := NewSignedLicense([]byte("encrypted"), []byte("signature"))
	text := signed.String()
	assert.Equal(t, "v1:ZW5jcnlwdGVk:c2lnbmF0dXJl", text)

	parsed, err := ParseSignedLicense(text + "\n")
	require.NoError(t, err)
	assert.True(t, signed.Equal(parsed))
	assert.Equal(t, []byte("encrypted"), parsed.EncryptedData())
	assert.Equal(t, []byte("signature"), parsed.Signature())
}

func TestParseSignedLicense_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"two parts", "v1:ZW5jcnlwdGVk"},
		{"four parts", "v1:a:b:c"},
		{"unknown version", "v2:ZW5jcnlwdGVk:c2lnbmF0dXJl"},
		{"bad data base64", "v1:***:c2lnbmF0dXJl"},
		{"bad signature base64", "v1:ZW5jcnlwdGVk:***"},
		{"empty signature", "v1:ZW5jcnlwdGVk:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignedLicense(tt.input)
			assert.ErrorIs(t, err, ErrInvalidSignedLicenseFormat)
			assert.Equal(t, apperrors.KindPayloadCorrupt, apperrors.KindOf(err))
		})
	}
}

func TestSignedLicense_Copies(t *testing.T) {
	data := []byte("encrypted")
	signed := NewSignedLicense(data, []byte("sig"))
	data[0] = 'X'

	out := signed.EncryptedData()
	assert.Equal(t, byte('e'), out[0])
	out[0] = 'Y'
	assert.Equal(t, []byte("encrypted"), signed.EncryptedData())
}

func TestSignedLicense_JSON(t *testing.T) {
	type envelope struct {
		License SignedLicense `json:"license"`
	}
	in := envelope{License: NewSignedLicense([]byte{1, 2, 3}, []byte{4, 5})}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"license":"v1:AQID:BAU="}`, string(data))

	var out envelope
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.License.Equal(out.License))
	assert.False(t, out.License.IsZero())
}
