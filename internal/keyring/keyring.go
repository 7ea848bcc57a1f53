// Package keyring loads the process-wide RSA key material used for delegated
// token minting and partner authorization codes. Keys are loaded exactly once
// at startup and passed by reference into the services that sign with them.
package keyring

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"

	"gocloud.dev/secrets"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keyring holds the loaded RSA private keys. Read-only after Load.
type Keyring struct {
	signingKey *rsa.PrivateKey
	partnerKey *rsa.PrivateKey
}

// Config describes where the key material comes from. SigningKey and
// PartnerKey carry base64-encoded PEM; when KMSKeyURI is set they carry
// base64-encoded KMS ciphertexts of the PEM instead.
type Config struct {
	SigningKey string
	PartnerKey string
	KMSKeyURI  string
}

// Load parses both keys. A missing or malformed key is a configuration error:
// the caller should treat it as fatal rather than retry.
func Load(ctx context.Context, cfg Config) (*Keyring, error) {
	var keeper *secrets.Keeper
	if cfg.KMSKeyURI != "" {
		var err error
		keeper, err = secrets.OpenKeeper(ctx, cfg.KMSKeyURI)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, "failed to open KMS keeper: "+err.Error())
		}
		defer func() { _ = keeper.Close() }()
	}

	signingKey, err := loadKey(ctx, keeper, cfg.SigningKey, "signing key")
	if err != nil {
		return nil, err
	}

	partnerKey, err := loadKey(ctx, keeper, cfg.PartnerKey, "partner key")
	if err != nil {
		return nil, err
	}

	return &Keyring{signingKey: signingKey, partnerKey: partnerKey}, nil
}

// SigningKey returns the RSA key used to mint delegated tokens.
func (k *Keyring) SigningKey() *rsa.PrivateKey {
	return k.signingKey
}

// PartnerKey returns the RSA key used to generate partner authorization codes.
func (k *Keyring) PartnerKey() *rsa.PrivateKey {
	return k.partnerKey
}

// loadKey base64-decodes value, optionally unwraps it through the KMS keeper,
// and parses the resulting PEM block as an RSA private key.
func loadKey(ctx context.Context, keeper *secrets.Keeper, value, name string) (*rsa.PrivateKey, error) {
	if value == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, name+" is not set")
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, name+" is not valid base64")
	}

	if keeper != nil {
		raw, err = keeper.Decrypt(ctx, raw)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, "failed to decrypt "+name+": "+err.Error())
		}
	}

	key, err := parsePEM(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, name+": "+err.Error())
	}

	return key, nil
}

// parsePEM accepts PKCS#1 ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks.
func parsePEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, apperrors.New("not a parseable RSA private key")
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, apperrors.New("PKCS#8 key is not RSA")
	}

	return key, nil
}
