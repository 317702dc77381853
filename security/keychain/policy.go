package keychain

import (
	"fmt"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

// TrustEveryone is a PolicyManager that accepts any KeyLocator without
// ever fetching a certificate. It exists for tests and local development,
// never for anything facing an untrusted network (spec §4.5 leaves real
// trust policy out of scope; this is the degenerate example).
type TrustEveryone struct{}

// CheckPolicy implements ndn.PolicyManager.
func (TrustEveryone) CheckPolicy(ndn.KeyLocator, []enc.Name) (bool, enc.Name, error) {
	return true, nil, nil
}

// TrustAnchor is a PolicyManager that accepts a signature only if its
// KeyLocator names exactly one of a fixed set of anchor certificates,
// with no chain walk. Anything else is rejected outright.
type TrustAnchor struct {
	anchors map[string]struct{}
}

// NewTrustAnchor builds a TrustAnchor trusting exactly the given
// certificate names.
func NewTrustAnchor(names ...enc.Name) *TrustAnchor {
	a := &TrustAnchor{anchors: make(map[string]struct{}, len(names))}
	for _, n := range names {
		a.anchors[n.String()] = struct{}{}
	}
	return a
}

// CheckPolicy implements ndn.PolicyManager.
func (a *TrustAnchor) CheckPolicy(loc ndn.KeyLocator, _ []enc.Name) (bool, enc.Name, error) {
	if loc.Kind != ndn.KeyLocatorName {
		return false, nil, fmt.Errorf("keychain: TrustAnchor requires a named KeyLocator")
	}
	if _, ok := a.anchors[loc.Name.String()]; !ok {
		return false, nil, fmt.Errorf("keychain: %s is not a trust anchor", loc.Name)
	}
	return true, nil, nil
}
