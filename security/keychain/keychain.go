// Package keychain provides example ndn.KeyChain implementations: an
// in-memory signer/policy store covering both Data signing and the
// name-component command-Interest signing convention of spec §4.4.2.
// On-disk identity storage and a real certificate-chain policy engine are
// out of scope (spec §1); the two PolicyManagers here are trivial
// stand-ins grounded on the teacher's keychain_mem.go factory shape.
package keychain

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/spec2022"
)

// MemKeyChain is an in-memory KeyChain: signers are registered under the
// certificate Name they should be presented as, and verification walks a
// pluggable ndn.PolicyManager (spec §4.5).
type MemKeyChain struct {
	mu      sync.Mutex
	signers map[string]ndn.Signer
	policy  ndn.PolicyManager
	cmdGen  *node.CommandInterestGenerator
}

// NewMemKeyChain builds an empty in-memory KeyChain. cmdGen should
// normally be the Node's own generator (via Node.CommandInterestGenerator)
// so command-Interest timestamps never regress relative to ones the Node
// sends for prefix registration.
func NewMemKeyChain(policy ndn.PolicyManager, cmdGen *node.CommandInterestGenerator) *MemKeyChain {
	return &MemKeyChain{
		signers: make(map[string]ndn.Signer),
		policy:  policy,
		cmdGen:  cmdGen,
	}
}

// String satisfies log's Stringer-keyed context convention.
func (kc *MemKeyChain) String() string { return "keychain-mem" }

// InsertKey registers signer under certName: subsequent SignData/
// SignInterest calls naming certName will use it.
func (kc *MemKeyChain) InsertKey(certName enc.Name, signer ndn.Signer) {
	kc.mu.Lock()
	defer kc.mu.Unlock()
	kc.signers[certName.String()] = signer
}

func (kc *MemKeyChain) signerFor(certName enc.Name) (ndn.Signer, error) {
	kc.mu.Lock()
	defer kc.mu.Unlock()
	s, ok := kc.signers[certName.String()]
	if !ok {
		return nil, fmt.Errorf("keychain: no signer registered for %s", certName)
	}
	return s, nil
}

// SignData implements ndn.KeyChain.
func (kc *MemKeyChain) SignData(data *ndn.Data, certName enc.Name) error {
	signer, err := kc.signerFor(certName)
	if err != nil {
		return err
	}
	// Placeholder Value sized to the signer's estimate so the encoder's
	// layout (and therefore the signed range) matches the final packet;
	// every signer here produces a fixed-length signature.
	data.Signature = ndn.Signature{
		Type:       signer.Type(),
		KeyLocator: ndn.NewKeyLocatorName(certName),
		Value:      make([]byte, signer.EstimateSize()),
	}
	wire, begin, end, err := spec2022.EncodeData(data)
	if err != nil {
		return err
	}
	value, err := signer.Sign(enc.Wire{wire[begin:end]})
	if err != nil {
		return err
	}
	data.Signature.Value = value
	return nil
}

// SignInterest implements ndn.KeyChain's command-Interest convention
// (spec §4.4.2): it appends Timestamp, Nonce, SignatureInfo, and
// SignatureValue generic components to interest.Name, signing over the
// name through SignatureInfo inclusive.
func (kc *MemKeyChain) SignInterest(interest *ndn.Interest, certName enc.Name) error {
	signer, err := kc.signerFor(certName)
	if err != nil {
		return err
	}

	sig := ndn.Signature{Type: signer.Type(), KeyLocator: ndn.NewKeyLocatorName(certName)}
	sigInfoWire := spec2022.EncodeSignatureInfo(sig)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(kc.cmdGen.NextTimestamp()))

	toSign := interest.Name.Append(
		enc.NewGenericComponent(tsBuf[:]),
		enc.NewGenericComponent(kc.cmdGen.Nonce()),
		enc.NewGenericComponent(sigInfoWire),
	)
	value, err := signer.Sign(enc.Wire{toSign.Bytes()})
	if err != nil {
		return err
	}

	interest.Name = toSign.Append(enc.NewGenericComponent(value))
	return nil
}

// VerifyData implements ndn.KeyChain's policy-driven trust walk.
func (kc *MemKeyChain) VerifyData(data *ndn.Data, fetcher ndn.CertFetcher, maxDepth int, onOK ndn.OnDataValidated, onFail ndn.OnDataValidationFailed) {
	verifyWithPolicy(kc.policy, fetcher, maxDepth, data.Signature.KeyLocator, nil,
		func() { onOK(data) },
		func(reason string) { onFail(data, reason) },
	)
}

// VerifyInterest implements ndn.KeyChain's command-Interest analogue.
// It reads the KeyLocator out of the Interest's SignatureInfo name
// component with SignedInterestKeyLocator.
func (kc *MemKeyChain) VerifyInterest(interest *ndn.Interest, fetcher ndn.CertFetcher, maxDepth int, onOK ndn.OnInterestValidated, onFail ndn.OnInterestValidationFailed) {
	loc, err := SignedInterestKeyLocator(interest.Name)
	if err != nil {
		log.Warn(kc, "VerifyInterest: malformed signed Interest", "err", err)
		onFail(interest, err.Error())
		return
	}
	verifyWithPolicy(kc.policy, fetcher, maxDepth, loc, nil,
		func() { onOK(interest) },
		func(reason string) { onFail(interest, reason) },
	)
}

// SignedInterestKeyLocator extracts the KeyLocator from a command
// Interest's trailing SignatureInfo name component (the second-from-last
// component, per the Timestamp/Nonce/SignatureInfo/SignatureValue suffix
// SignInterest appends).
func SignedInterestKeyLocator(name enc.Name) (ndn.KeyLocator, error) {
	comp, ok := name.Get(-2)
	if !ok {
		return ndn.KeyLocator{}, fmt.Errorf("keychain: name too short to be a signed Interest")
	}
	sig, err := spec2022.DecodeSignatureInfo(comp.Val)
	if err != nil {
		return ndn.KeyLocator{}, err
	}
	return sig.KeyLocator, nil
}

// verifyWithPolicy runs CheckPolicy, recursing through fetcher for as
// many hops as maxDepth allows, and detecting cycles by certificate name
// (spec §4.5).
func verifyWithPolicy(policy ndn.PolicyManager, fetcher ndn.CertFetcher, maxDepth int, loc ndn.KeyLocator, seen []enc.Name, onOK func(), onFail func(reason string)) {
	trusted, next, err := policy.CheckPolicy(loc, seen)
	if err != nil {
		onFail(err.Error())
		return
	}
	if trusted {
		onOK()
		return
	}
	if next == nil {
		onFail("policy declined without naming a certificate to fetch")
		return
	}
	for _, s := range seen {
		if s.Equal(next) {
			onFail("certificate chain cycle detected")
			return
		}
	}
	if maxDepth <= 0 {
		onFail("certificate chain exceeded maximum depth")
		return
	}
	if fetcher == nil {
		onFail("no certificate fetcher available")
		return
	}
	fetcher.FetchCert(next,
		func(wire []byte) {
			cert, _, _, err := spec2022.DecodeData(wire)
			if err != nil {
				onFail("malformed certificate: " + err.Error())
				return
			}
			verifyWithPolicy(policy, fetcher, maxDepth-1, cert.Signature.KeyLocator, append(seen, next), onOK, onFail)
		},
		func(err error) { onFail("certificate fetch failed: " + err.Error()) },
	)
}
