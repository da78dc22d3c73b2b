package teller

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientPair returns a self-signed client certificate and key as PEM.
func clientPair(t *testing.T) (certPEM, keyPEM []byte, cert *x509.Certificate) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(42),
		Subject:               pkix.Name{CommonName: "finlink-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err = x509.ParseCertificate(der)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, cert
}

// mtlsServer starts a TLS server that requires a client certificate signed
// by clientCA.
func mtlsServer(t *testing.T, clientCA *x509.Certificate, h http.HandlerFunc) (*httptest.Server, *x509.CertPool) {
	t.Helper()

	pool := x509.NewCertPool()
	pool.AddCert(clientCA)

	srv := httptest.NewUnstartedServer(h)
	srv.TLS = &tls.Config{
		ClientAuth: tls.RequireAndVerifyClientCert,
		ClientCAs:  pool,
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	roots := x509.NewCertPool()
	roots.AddCert(srv.Certificate())
	return srv, roots
}

func TestClient_GetWithMutualTLS(t *testing.T) {
	certPEM, keyPEM, cert := clientPair(t)

	var gotAuth, gotPath, gotCN string
	srv, roots := mtlsServer(t, cert, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if len(r.TLS.PeerCertificates) > 0 {
			gotCN = r.TLS.PeerCertificates[0].Subject.CommonName
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"acc_1"}]`))
	})

	c, err := NewClient(srv.URL, certPEM, keyPEM, WithRootCAs(roots))
	require.NoError(t, err)
	defer c.Close()

	body, err := c.Get(context.Background(), AccountsPath(), "tok_abc")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"acc_1"}]`, string(body))
	assert.Equal(t, "Bearer tok_abc", gotAuth)
	assert.Equal(t, "/accounts", gotPath)
	assert.Equal(t, "finlink-test", gotCN)
}

func TestClient_BodySizeLimit(t *testing.T) {
	certPEM, keyPEM, cert := clientPair(t)

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: maxBodySize},
		{name: "over limit", size: maxBodySize + 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `"` + strings.Repeat("x", tt.size-2) + `"`
			srv, roots := mtlsServer(t, cert, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			})

			c, err := NewClient(srv.URL, certPEM, keyPEM, WithRootCAs(roots))
			require.NoError(t, err)
			defer c.Close()

			body, err := c.Get(context.Background(), AccountsPath(), "tok_abc")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBodyTooLarge)
				assert.Nil(t, body)
				return
			}
			require.NoError(t, err)
			assert.Len(t, body, tt.size)
		})
	}
}

func TestClient_NonSuccessIsAPIError(t *testing.T) {
	certPEM, keyPEM, cert := clientPair(t)
	srv, roots := mtlsServer(t, cert, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"unauthorized"}}`))
	})

	c, err := NewClient(srv.URL, certPEM, keyPEM, WithRootCAs(roots))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), BalancesPath("acc_1"), "tok")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "unauthorized")
}

func TestClient_ServerRejectsMissingClientCert(t *testing.T) {
	_, _, cert := clientPair(t)
	otherCert, otherKey, _ := clientPair(t)

	srv, roots := mtlsServer(t, cert, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})

	c, err := NewClient(srv.URL, otherCert, otherKey, WithRootCAs(roots))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), AccountsPath(), "tok")
	assert.Error(t, err)
}

func TestNewClient_BadMaterial(t *testing.T) {
	_, err := NewClient("", []byte("not a cert"), []byte("not a key"))
	assert.Error(t, err)
}

func TestClient_Timeout(t *testing.T) {
	certPEM, keyPEM, cert := clientPair(t)
	release := make(chan struct{})
	srv, roots := mtlsServer(t, cert, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c, err := NewClient(srv.URL, certPEM, keyPEM, WithRootCAs(roots), WithTimeout(100*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), AccountsPath(), "tok")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/accounts/acc_1/transactions", TransactionsPath("acc_1"))
	assert.Equal(t, "/accounts/acc_1/balances", BalancesPath("acc_1"))
	assert.Equal(t, "/accounts/a%2Fb/balances", BalancesPath("a/b"))
}
