package authn

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// Algorithm selects the asymmetric signing scheme for session tokens.
type Algorithm string

const (
	AlgorithmRS256 Algorithm = "RS256"
	AlgorithmES256 Algorithm = "ES256"
)

const rsaKeyBits = 2048

// KeyMaterial holds a signing key pair. It is built once at bootstrap
// via GenerateKeyPair or LoadKeyPair and read-only afterwards, so it is
// safe to share across goroutines.
type KeyMaterial struct {
	algorithm Algorithm
	method    jwt.SigningMethod
	private   crypto.Signer
}

// Algorithm returns the signing scheme of the pair.
func (k *KeyMaterial) Algorithm() Algorithm { return k.algorithm }

// Public returns the verification key.
func (k *KeyMaterial) Public() crypto.PublicKey { return k.private.Public() }

// GenerateKeyPair creates a fresh signing key pair for the given
// algorithm. RS256 generates a 2048-bit RSA key, ES256 a P-256 key.
func GenerateKeyPair(alg Algorithm) (*KeyMaterial, error) {
	switch alg {
	case AlgorithmRS256:
		key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return nil, errors.ErrKeyMaterial.WithCause(err)
		}
		return &KeyMaterial{algorithm: alg, method: jwt.SigningMethodRS256, private: key}, nil
	case AlgorithmES256:
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, errors.ErrKeyMaterial.WithCause(err)
		}
		return &KeyMaterial{algorithm: alg, method: jwt.SigningMethodES256, private: key}, nil
	default:
		return nil, errors.ErrKeyMaterial.WithMessagef("unsupported algorithm %q", alg)
	}
}

// LoadKeyPair parses a PEM-encoded private key and pairs it with the
// given algorithm. PKCS#8 is tried first, then the legacy PKCS#1 and
// SEC1 encodings.
func LoadKeyPair(alg Algorithm, privatePEM []byte) (*KeyMaterial, error) {
	block, _ := pem.Decode(privatePEM)
	if block == nil {
		return nil, errors.ErrKeyMaterial.WithMessage("no PEM block found in private key data")
	}

	parsed, err := parsePrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.ErrKeyMaterial.WithCause(err)
	}

	switch alg {
	case AlgorithmRS256:
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.ErrKeyMaterial.WithMessage("RS256 requires an RSA private key")
		}
		return &KeyMaterial{algorithm: alg, method: jwt.SigningMethodRS256, private: key}, nil
	case AlgorithmES256:
		key, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.ErrKeyMaterial.WithMessage("ES256 requires an ECDSA private key")
		}
		return &KeyMaterial{algorithm: alg, method: jwt.SigningMethodES256, private: key}, nil
	default:
		return nil, errors.ErrKeyMaterial.WithMessagef("unsupported algorithm %q", alg)
	}
}

// LoadKeyPairFromFile reads a PEM private key file and builds the pair.
func LoadKeyPairFromFile(alg Algorithm, path string) (*KeyMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrKeyMaterial.WithCause(err)
	}
	return LoadKeyPair(alg, data)
}

func parsePrivateKey(der []byte) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 key of type %T cannot sign", key)
		}
		return signer, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("unrecognized private key encoding")
}

// PrivatePEM encodes the private key as PKCS#8 PEM, suitable for the
// key file consumed by LoadKeyPairFromFile.
func (k *KeyMaterial) PrivatePEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.private)
	if err != nil {
		return nil, errors.ErrKeyMaterial.WithCause(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// PublicPEM encodes the verification key as PKIX PEM, for distribution
// to services that only verify tokens.
func (k *KeyMaterial) PublicPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(k.private.Public())
	if err != nil {
		return nil, errors.ErrKeyMaterial.WithCause(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
