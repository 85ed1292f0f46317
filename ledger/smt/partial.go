package smt

// node is a vertex of a partial trie. Only the branches the proofs touch are
// expanded; everything off-path is summarized by a fixed sibling hash.
type node struct {
	lChild  *node
	rChild  *node
	height  int
	hash    [32]byte
	hashSet bool
	value   []byte
}

func newNode(height int) *node {
	return &node{height: height}
}

func newHashNode(hash [32]byte, height int) *node {
	return &node{height: height, hash: hash, hashSet: true}
}

// hashValue computes the node's hash. A node with children is recomputed
// from them, so replayed writes below always propagate; the recorded summary
// hash only stands in for subtrees no proof expanded.
func (n *node) hashValue() [32]byte {
	if n.hashSet && n.lChild == nil && n.rChild == nil {
		return n.hash
	}
	left := defaultHash(n.height - 1)
	if n.lChild != nil {
		left = n.lChild.hashValue()
	}
	right := defaultHash(n.height - 1)
	if n.rChild != nil {
		right = n.rChild.hashValue()
	}
	return hashInterior(left, right)
}

// Partial holds the subset of a sparse Merkle trie that a batch of storage
// proofs reconstructs. It is the verifier-side view of a domain's pre-step
// state: values the proofs cover can be read, writes can be replayed, and
// the resulting root recomputed, all without the full trie.
type Partial struct {
	root       *node
	pathLookUp map[Path]*node
}

// NewPartial builds a partial trie from a node-disjoint batch of storage
// proofs and checks it reconstructs the claimed root. A proof batch that is
// internally consistent but rooted elsewhere fails here with an
// InvalidProofError; structurally broken proofs fail with a
// MalformedProofError.
func NewPartial(root Root, proofs []*StorageProof) (*Partial, error) {
	p := &Partial{
		root:       newNode(TreeHeight),
		pathLookUp: make(map[Path]*node),
	}

	for _, proof := range proofs {
		err := proof.sanityCheck()
		if err != nil {
			return nil, err
		}

		path := PathOf(proof.Key)
		interimIndex := 0
		current := p.root

		for j := 0; j < int(proof.Steps); j++ {
			// sibling subtree at this depth: default when the proof's flag
			// is unset, otherwise the next interim hash
			siblingHash := defaultHash(current.height - 1)
			if readBit(proof.Flags, j) == 1 {
				siblingHash = proof.Interims[interimIndex]
				interimIndex++
			}

			if readBit(path[:], j) == 1 { // right branching
				if current.lChild == nil {
					current.lChild = newHashNode(siblingHash, current.height-1)
				}
				if current.rChild == nil {
					current.rChild = newNode(current.height - 1)
				}
				current = current.rChild
			} else { // left branching
				if current.rChild == nil {
					current.rChild = newHashNode(siblingHash, current.height-1)
				}
				if current.lChild == nil {
					current.lChild = newNode(current.height - 1)
				}
				current = current.lChild
			}
		}

		if proof.Inclusion {
			current.hash = computeCompactValue(path, proof.Value, current.height)
			current.value = proof.Value
		} else {
			current.hash = defaultHash(current.height)
			current.value = nil
		}
		current.hashSet = true
		p.pathLookUp[path] = current
	}

	computed := p.root.hashValue()
	if computed != [32]byte(root) {
		return nil, NewInvalidProofErrorf("proofs reconstruct root %x, expected %x", computed, root)
	}
	return p, nil
}

// RootHash returns the root of the partial trie in its current state.
func (p *Partial) RootHash() Root {
	return Root(p.root.hashValue())
}

// Get returns the proven values for the given keys, nil for keys proven
// absent. Keys no proof covers make the lookup fail with ErrMissingPath.
func (p *Partial) Get(keys [][]byte) ([][]byte, error) {
	var failed []Path
	values := make([][]byte, 0, len(keys))
	for _, key := range keys {
		path := PathOf(key)
		n, found := p.pathLookUp[path]
		if !found {
			values = append(values, nil)
			failed = append(failed, path)
			continue
		}
		values = append(values, n.value)
	}
	if len(failed) > 0 {
		return nil, &ErrMissingPath{Paths: failed}
	}
	return values, nil
}

// Update replays writes over the proven state and returns the resulting
// root. Writing an empty value removes the key. Keys no proof covers make
// the update fail with ErrMissingPath.
func (p *Partial) Update(keys [][]byte, values [][]byte) (Root, error) {
	var failed []Path
	for i, key := range keys {
		path := PathOf(key)
		n, found := p.pathLookUp[path]
		if !found {
			failed = append(failed, path)
			continue
		}
		if n.lChild != nil || n.rChild != nil {
			// an expanded terminal means the proof batch was not
			// node-disjoint; replaying a write through it would silently be
			// masked by the expansion, so refuse instead
			return EmptyRoot(), NewMalformedProofErrorf("write target %x is not a terminal proof node", path)
		}
		if len(values[i]) == 0 {
			n.hash = defaultHash(n.height)
			n.value = nil
		} else {
			n.hash = computeCompactValue(path, values[i], n.height)
			n.value = values[i]
		}
		n.hashSet = true
	}
	if len(failed) > 0 {
		return EmptyRoot(), &ErrMissingPath{Paths: failed}
	}
	return Root(p.root.hashValue()), nil
}
