package ndn

import "github.com/ndn-go/corendn/enc"

// Signer is the minimal capability a KeyChain needs from a concrete key to
// sign Data or command Interests: produce SignatureInfo metadata and sign
// an already-assembled "covered" wire.
type Signer interface {
	Type() SigType
	KeyLocator() KeyLocator
	EstimateSize() uint
	Sign(covered enc.Wire) ([]byte, error)
}

// OnDataValidated / OnDataValidationFailed are the verify_data callbacks of
// spec §4.5.
type OnDataValidated func(data *Data)
type OnDataValidationFailed func(data *Data, reason string)

// OnInterestValidated / OnInterestValidationFailed are the
// verify_interest callbacks of spec §4.5.
type OnInterestValidated func(interest *Interest)
type OnInterestValidationFailed func(interest *Interest, reason string)

// CertFetcher is implemented by whatever can turn a certificate Name into
// an encoded certificate (normally Node.ExpressInterest, but tests can
// supply something simpler). It must never block; the result arrives via
// the callback.
type CertFetcher interface {
	FetchCert(name enc.Name, onData func(wire []byte), onFail func(err error))
}

// PolicyManager inspects a KeyLocator and decides whether the signature it
// names should be trusted outright, needs another certificate fetched
// first, or must be rejected (spec §4.5).
type PolicyManager interface {
	// CheckPolicy returns exactly one of: trusted=true (accept),
	// nextCert!=nil (fetch this certificate name and recurse), or an error
	// (reject with reason).
	CheckPolicy(loc KeyLocator, chain []enc.Name) (trusted bool, nextCert enc.Name, err error)
}

// KeyChain is the abstracted contract §4.5 requires of the core: signing
// plus a policy-driven trust walk for verification. Concrete
// implementations and on-disk storage are out of scope (spec §1); see
// security/keychain for the in-memory one this repo ships as an example.
type KeyChain interface {
	// SignData writes SignatureInfo (including a KeyLocator naming
	// certName) and SignatureValue over data's signed portion.
	SignData(data *Data, certName enc.Name) error

	// SignInterest implements the command-Interest appendage rule of
	// spec §4.4.2: it appends Timestamp, Nonce, SignatureInfo, and
	// SignatureValue components to interest.Name.
	SignInterest(interest *Interest, certName enc.Name) error

	// VerifyData runs the policy-driven trust walk of spec §4.5,
	// fetching certificates through fetcher as needed, bounded by
	// maxDepth hops.
	VerifyData(data *Data, fetcher CertFetcher, maxDepth int, onOK OnDataValidated, onFail OnDataValidationFailed)

	// VerifyInterest is the command-Interest analogue of VerifyData.
	VerifyInterest(interest *Interest, fetcher CertFetcher, maxDepth int, onOK OnInterestValidated, onFail OnInterestValidationFailed)
}
