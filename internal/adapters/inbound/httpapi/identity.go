package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls"

	"github.com/sufield/confdesk/internal/ports"
)

// Headers read when the role header is trusted.
const (
	RoleHeader  = "X-Confdesk-Role"
	ActorHeader = "X-Confdesk-Actor"

	// RoleOrganizer is the RoleHeader value granting the organizer role.
	RoleOrganizer = "organizer"
)

// Peer is the authenticated identity of an mTLS caller.
type Peer struct {
	ID        spiffeid.ID
	ExpiresAt time.Time
}

// PeerFromRequest reads the caller's SPIFFE ID from the verified TLS
// connection state. Only trust the result behind the mTLS config built by
// NewServerTLSConfig; on a server that does not verify client certificates
// the ID is attacker controlled.
func PeerFromRequest(r *http.Request) (Peer, bool) {
	if r == nil || r.TLS == nil {
		return Peer{}, false
	}
	id, err := spiffetls.PeerIDFromConnectionState(*r.TLS)
	if err != nil {
		return Peer{}, false
	}
	var expiresAt time.Time
	if len(r.TLS.PeerCertificates) > 0 && r.TLS.PeerCertificates[0] != nil {
		expiresAt = r.TLS.PeerCertificates[0].NotAfter
	}
	return Peer{ID: id, ExpiresAt: expiresAt}, true
}

type peerCtxKey struct{}

// WithPeer attaches peer information to the context.
func WithPeer(ctx context.Context, p Peer) context.Context {
	return context.WithValue(ctx, peerCtxKey{}, p)
}

// PeerFromContext returns the peer stored by WithPeer.
func PeerFromContext(ctx context.Context) (Peer, bool) {
	p, ok := ctx.Value(peerCtxKey{}).(Peer)
	return p, ok
}

// RolePolicy decides who is an organizer.
//
// A caller is an organizer when its verified SPIFFE ID is listed in
// OrganizerIDs, or, with TrustRoleHeader set, when it sends
// "X-Confdesk-Role: organizer". The header is only safe behind a proxy
// that strips it from untrusted callers.
type RolePolicy struct {
	organizers      map[string]struct{}
	trustRoleHeader bool
}

// NewRolePolicy builds a policy from configured organizer SPIFFE IDs.
func NewRolePolicy(organizerIDs []string, trustRoleHeader bool) RolePolicy {
	set := make(map[string]struct{}, len(organizerIDs))
	for _, id := range organizerIDs {
		set[strings.TrimSpace(id)] = struct{}{}
	}
	return RolePolicy{organizers: set, trustRoleHeader: trustRoleHeader}
}

// Actor resolves the caller of r.
func (p RolePolicy) Actor(r *http.Request) ports.Actor {
	if peer, ok := PeerFromContext(r.Context()); ok {
		id := peer.ID.String()
		_, organizer := p.organizers[id]
		return ports.Actor{ID: id, IsOrganizer: organizer}
	}
	if !p.trustRoleHeader {
		return ports.Actor{ID: "anonymous"}
	}

	actor := ports.Actor{ID: strings.TrimSpace(r.Header.Get(ActorHeader))}
	if actor.ID == "" {
		actor.ID = "anonymous"
	}
	actor.IsOrganizer = strings.EqualFold(strings.TrimSpace(r.Header.Get(RoleHeader)), RoleOrganizer)
	return actor
}

// peerMiddleware stores the verified peer of mTLS requests in the context.
func peerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if peer, ok := PeerFromRequest(r); ok {
			r = r.WithContext(WithPeer(r.Context(), peer))
		}
		next.ServeHTTP(w, r)
	})
}
