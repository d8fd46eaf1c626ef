package app

import (
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
	cryptoService "github.com/allisson/licenses/internal/crypto/service"
	apperrors "github.com/allisson/licenses/internal/errors"
	licenseService "github.com/allisson/licenses/internal/license/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the Argon2id password key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewArgon2KeyDeriver()
	})
	return c.keyDeriver
}

// KeyGenerator returns the RSA key pair generator.
func (c *Container) KeyGenerator() cryptoService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = cryptoService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// KMSService returns the KMS service used by the kms password source.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyLoader returns the key material loader configured with the envelope algorithm
// and KDF parameters.
func (c *Container) KeyLoader() (cryptoService.KeyLoader, error) {
	var err error
	c.keyLoaderInit.Do(func() {
		c.keyLoader, err = c.initKeyLoader()
		if err != nil {
			c.setInitError("keyLoader", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("keyLoader"); storedErr != nil {
		return nil, storedErr
	}
	return c.keyLoader, nil
}

// Signer returns the RSA signer for the configured signature algorithm.
func (c *Container) Signer() (cryptoService.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = c.initSigner()
		if err != nil {
			c.setInitError("signer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("signer"); storedErr != nil {
		return nil, storedErr
	}
	return c.signer, nil
}

// PayloadCodec returns the license payload codec. It requires PAYLOAD_KEY.
func (c *Container) PayloadCodec() (licenseService.PayloadCodec, error) {
	var err error
	c.payloadCodecInit.Do(func() {
		c.payloadCodec, err = c.initPayloadCodec()
		if err != nil {
			c.setInitError("payloadCodec", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("payloadCodec"); storedErr != nil {
		return nil, storedErr
	}
	return c.payloadCodec, nil
}

// initKeyLoader creates the key loader from the envelope configuration.
func (c *Container) initKeyLoader() (cryptoService.KeyLoader, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.KeyEnvelopeAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key envelope algorithm: %w", err)
	}

	params := c.config.KDFParams()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate kdf params: %w", err)
	}

	return cryptoService.NewKeyLoader(
		c.AEADManager(),
		c.KeyDeriver(),
		alg,
		params,
		c.config.RSAKeyBits,
	), nil
}

// initSigner creates the signer for the configured algorithm and minimum key size.
func (c *Container) initSigner() (cryptoService.Signer, error) {
	alg, err := cryptoDomain.ParseSignatureAlgorithm(c.config.SignatureAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature algorithm: %w", err)
	}

	signer, err := cryptoService.NewSigner(alg, c.config.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	return signer, nil
}

// initPayloadCodec decodes the payload key and creates the codec. The decoded key
// is copied by the codec and wiped here.
func (c *Container) initPayloadCodec() (*licenseService.AEADPayloadCodec, error) {
	if c.config.PayloadKey == "" {
		return nil, fmt.Errorf("%w: PAYLOAD_KEY is required", apperrors.ErrInvalidInput)
	}

	alg, err := cryptoDomain.ParseAlgorithm(c.config.PayloadAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payload algorithm: %w", err)
	}

	mode, err := licenseService.ParseKeyMode(c.config.PayloadKeyMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payload key mode: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(c.config.PayloadKey)
	if err != nil {
		return nil, fmt.Errorf("%w: PAYLOAD_KEY must be base64", apperrors.ErrInvalidInput)
	}
	defer cryptoDomain.Zero(key)

	codec, err := licenseService.NewPayloadCodec(c.AEADManager(), key, alg, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload codec: %w", err)
	}
	return codec, nil
}
