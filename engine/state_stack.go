package engine

// stateStack holds the fingerprints of the game so far followed by the
// positions on the current search path. Nodes push on entry and pop on exit.
type stateStack struct {
	hashes []uint64
}

// reset rebuilds the stack so that it only contains the game history.
func (st *stateStack) reset(history []uint64) {
	st.hashes = append(st.hashes[:0], history...)
}

func (st *stateStack) push(hash uint64) {
	st.hashes = append(st.hashes, hash)
}

func (st *stateStack) pop() {
	if len(st.hashes) == 0 {
		return
	}
	st.hashes = st.hashes[:len(st.hashes)-1]
}

// contains reports whether hash was already reached, scanning from the top.
func (st *stateStack) contains(hash uint64) bool {
	for i := len(st.hashes) - 1; i >= 0; i-- {
		if st.hashes[i] == hash {
			return true
		}
	}
	return false
}
