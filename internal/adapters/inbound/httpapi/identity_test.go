package httpapi

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peerCert(t *testing.T, spiffeID string) *x509.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	u, err := url.Parse(spiffeID)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		URIs:         []*url.URL{u},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func mtlsRequest(t *testing.T, spiffeID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{PeerCertificates: []*x509.Certificate{peerCert(t, spiffeID)}}
	return req
}

func TestPeerFromRequest(t *testing.T) {
	t.Parallel()

	peer, ok := PeerFromRequest(mtlsRequest(t, "spiffe://example.org/organizer"))
	require.True(t, ok)
	assert.Equal(t, "spiffe://example.org/organizer", peer.ID.String())
	assert.False(t, peer.ExpiresAt.IsZero())

	_, ok = PeerFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok, "plain http has no peer")

	_, ok = PeerFromRequest(nil)
	assert.False(t, ok)
}

func TestRolePolicy_Actor(t *testing.T) {
	t.Parallel()

	withPeer := func(r *http.Request) *http.Request {
		peer, ok := PeerFromRequest(r)
		require.True(t, ok)
		return r.WithContext(WithPeer(r.Context(), peer))
	}
	withHeaders := func(role, actor string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			r.Header.Set(RoleHeader, role)
		}
		if actor != "" {
			r.Header.Set(ActorHeader, actor)
		}
		return r
	}

	organizers := []string{"spiffe://example.org/organizer"}
	tests := []struct {
		name          string
		policy        RolePolicy
		req           *http.Request
		wantID        string
		wantOrganizer bool
	}{
		{
			name:          "listed spiffe id",
			policy:        NewRolePolicy(organizers, false),
			req:           withPeer(mtlsRequest(t, "spiffe://example.org/organizer")),
			wantID:        "spiffe://example.org/organizer",
			wantOrganizer: true,
		},
		{
			name:   "unlisted spiffe id",
			policy: NewRolePolicy(organizers, false),
			req:    withPeer(mtlsRequest(t, "spiffe://example.org/speaker")),
			wantID: "spiffe://example.org/speaker",
		},
		{
			name:   "peer wins over header",
			policy: NewRolePolicy(organizers, true),
			req: func() *http.Request {
				r := withPeer(mtlsRequest(t, "spiffe://example.org/speaker"))
				r.Header.Set(RoleHeader, RoleOrganizer)
				return r
			}(),
			wantID: "spiffe://example.org/speaker",
		},
		{
			name:   "header ignored when untrusted",
			policy: NewRolePolicy(nil, false),
			req:    withHeaders(RoleOrganizer, "kari"),
			wantID: "anonymous",
		},
		{
			name:          "trusted header",
			policy:        NewRolePolicy(nil, true),
			req:           withHeaders("Organizer", "kari"),
			wantID:        "kari",
			wantOrganizer: true,
		},
		{
			name:   "trusted header without role",
			policy: NewRolePolicy(nil, true),
			req:    withHeaders("", ""),
			wantID: "anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := tt.policy.Actor(tt.req)

			assert.Equal(t, tt.wantID, actor.ID)
			assert.Equal(t, tt.wantOrganizer, actor.IsOrganizer)
		})
	}
}
