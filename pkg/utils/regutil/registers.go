package regutil

// ParseUint32Registers assembles two 16-bit registers, most significant
// register first.
func ParseUint32Registers(regs []uint16) uint32 {
	return uint32(regs[0])<<16 | uint32(regs[1])
}

// ParseUint64Registers assembles four 16-bit registers, most significant
// register first.
func ParseUint64Registers(regs []uint16) uint64 {
	return (uint64(regs[0]) << 48) |
		(uint64(regs[1]) << 32) |
		(uint64(regs[2]) << 16) |
		uint64(regs[3])
}

// RegistersToBytes expands registers into bytes, high byte before low byte.
func RegistersToBytes(regs []uint16) []byte {
	bs := make([]byte, 0, len(regs)*2)
	for _, word := range regs {
		bs = append(bs, byte(word>>8), byte(word))
	}
	return bs
}

// BytesToRegisters packs bytes into registers, high byte first. An odd
// trailing byte is zero padded.
func BytesToRegisters(bs []byte) []uint16 {
	regs := make([]uint16, 0, (len(bs)+1)/2)
	for i := 0; i < len(bs); i += 2 {
		word := uint16(bs[i]) << 8
		if i+1 < len(bs) {
			word |= uint16(bs[i+1])
		}
		regs = append(regs, word)
	}
	return regs
}
