package authn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPair(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmRS256, AlgorithmES256} {
		t.Run(string(alg), func(t *testing.T) {
			key, err := GenerateKeyPair(alg)
			require.NoError(t, err)
			assert.Equal(t, alg, key.Algorithm())
			assert.NotNil(t, key.Public())
		})
	}

	_, err := GenerateKeyPair(Algorithm("HS256"))
	assert.Error(t, err, "symmetric algorithms must be rejected")
}

func TestKeyPairPEMRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmRS256, AlgorithmES256} {
		t.Run(string(alg), func(t *testing.T) {
			key, err := GenerateKeyPair(alg)
			require.NoError(t, err)

			privPEM, err := key.PrivatePEM()
			require.NoError(t, err)
			pubPEM, err := key.PublicPEM()
			require.NoError(t, err)
			assert.Contains(t, string(privPEM), "PRIVATE KEY")
			assert.Contains(t, string(pubPEM), "PUBLIC KEY")

			loaded, err := LoadKeyPair(alg, privPEM)
			require.NoError(t, err)
			assert.Equal(t, alg, loaded.Algorithm())

			// Tokens signed by the loaded key verify against the original.
			loadedPub, err := loaded.PublicPEM()
			require.NoError(t, err)
			assert.Equal(t, pubPEM, loadedPub)
		})
	}
}

func TestLoadKeyPairRejectsMismatch(t *testing.T) {
	ecKey, err := GenerateKeyPair(AlgorithmES256)
	require.NoError(t, err)
	pemData, err := ecKey.PrivatePEM()
	require.NoError(t, err)

	// An ECDSA key cannot back RS256.
	_, err = LoadKeyPair(AlgorithmRS256, pemData)
	assert.Error(t, err)

	_, err = LoadKeyPair(AlgorithmES256, []byte("not pem at all"))
	assert.Error(t, err)
}
