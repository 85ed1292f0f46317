package domain

import (
	"crypto/ed25519"
)

// Registry is the explicit configuration state a validator needs: operator
// public keys, the per-height operator assignment, and the genesis state
// root of every domain. It is passed by value into each validation call so
// verification stays reproducible and free of ambient process state.
type Registry struct {
	keys        map[OperatorID]ed25519.PublicKey
	assignments map[DomainID]map[uint64]map[OperatorID]struct{}
	genesisRoot map[DomainID]StateRoot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keys:        make(map[OperatorID]ed25519.PublicKey),
		assignments: make(map[DomainID]map[uint64]map[OperatorID]struct{}),
		genesisRoot: make(map[DomainID]StateRoot),
	}
}

// RegisterOperator records an operator's public key and returns its
// OperatorID (the hash of the key).
func (r *Registry) RegisterOperator(key ed25519.PublicKey) OperatorID {
	id := HashToIdentifier(key)
	r.keys[id] = key
	return id
}

// PublicKey returns the registered key for an operator, or false if the
// operator is unknown.
func (r *Registry) PublicKey(operator OperatorID) (ed25519.PublicKey, bool) {
	key, ok := r.keys[operator]
	return key, ok
}

// AssignOperator authorizes an operator for the given domain at the given
// height. Several operators may be authorized for the same height; competing
// receipts from them are exactly what surfaces fraud.
func (r *Registry) AssignOperator(dom DomainID, height uint64, operator OperatorID) {
	byHeight, ok := r.assignments[dom]
	if !ok {
		byHeight = make(map[uint64]map[OperatorID]struct{})
		r.assignments[dom] = byHeight
	}
	ops, ok := byHeight[height]
	if !ok {
		ops = make(map[OperatorID]struct{})
		byHeight[height] = ops
	}
	ops[operator] = struct{}{}
}

// IsAuthorized returns whether the operator is authorized for the domain at
// the given height.
func (r *Registry) IsAuthorized(dom DomainID, height uint64, operator OperatorID) bool {
	byHeight, ok := r.assignments[dom]
	if !ok {
		return false
	}
	_, ok = byHeight[height][operator]
	return ok
}

// SetGenesisRoot records the state root a domain's receipt chain is anchored
// at.
func (r *Registry) SetGenesisRoot(dom DomainID, root StateRoot) {
	r.genesisRoot[dom] = root
}

// GenesisRoot returns the genesis state root for a domain, or false if the
// domain is unknown.
func (r *Registry) GenesisRoot(dom DomainID) (StateRoot, bool) {
	root, ok := r.genesisRoot[dom]
	return root, ok
}
