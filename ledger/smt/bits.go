package smt

// readBit returns the bit at index `idx` in the byte slice `b` (big endian).
// The function panics if the byte slice is too short.
func readBit(b []byte, idx int) int {
	byteValue := int(b[idx>>3])
	idx &= 7
	return (byteValue >> (7 - idx)) & 1
}

// setBit sets the bit at index `i` in the byte slice `b`. The function
// panics if the byte slice is too short.
func setBit(b []byte, i int) {
	byteIndex := i >> 3
	i &= 7
	b[byteIndex] |= byte(1 << (7 - i))
}

// makeBitVector allocates a byte slice of minimal size that can hold
// numberBits.
func makeBitVector(numberBits int) []byte {
	return make([]byte, (numberBits+7)>>3)
}
