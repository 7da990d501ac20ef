package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// escapedPEM returns a PKCS#8 key the way it appears in an env var: one line
// with literal \n sequences.
func escapedPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return strings.ReplaceAll(string(block), "\n", `\n`)
}

func testCredentials(t *testing.T) Credentials {
	t.Helper()
	return Credentials{
		ProjectID:   "marketplace-test",
		ClientEmail: "svc@marketplace-test.iam.example.com",
		PrivateKey:  escapedPEM(t),
	}
}
