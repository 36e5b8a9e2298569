package runtime

import "errors"

// SunSpec "not implemented" sentinels, one per fixed-width kind.
const (
	InvalidInt16  uint16 = 0x8000
	InvalidUint16 uint16 = 0xFFFF
	InvalidInt32  uint32 = 0x80000000
	InvalidUint32 uint32 = 0xFFFFFFFF
	InvalidInt64  uint64 = 0x8000000000000000
	InvalidUint64 uint64 = 0xFFFFFFFFFFFFFFFF
)

// Signature marks the start of a SunSpec register map.
const Signature = "SunS"

// EndModelID terminates the model chain.
const EndModelID uint16 = 0xFFFF

// MaxRegistersPerRead is the largest register quantity issued in a single
// transport read. Larger model blocks are split and concatenated.
const MaxRegistersPerRead = 125

// DefaultBaseAddresses are the candidate register offsets probed for the
// signature, in order.
var DefaultBaseAddresses = []uint16{0, 40000, 50000}

var ErrTransport = errors.New("transport failure")
var ErrProtocol = errors.New("protocol violation")
var ErrModelNotFound = errors.New("model not found")
var ErrScan = errors.New("scan failure")
var ErrSchema = errors.New("invalid model schema")
