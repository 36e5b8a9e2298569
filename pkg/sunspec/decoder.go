package sunspec

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"sunspecengine/pkg/sunspec/runtime"
	"sunspecengine/pkg/utils/regutil"
)

// DecodeResult is one value decoded from a register span. Value is nil when
// the registers held the kind's invalid sentinel.
type DecodeResult struct {
	Value         interface{}
	RegistersUsed int
}

var pointKindRegisters = map[runtime.PointKind]int{
	runtime.Sunssf:     1,
	runtime.Int16:      1,
	runtime.Uint16:     1,
	runtime.Enum16:     1,
	runtime.Bitfield16: 1,
	runtime.Int32:      2,
	runtime.Uint32:     2,
	runtime.Acc32:      2,
	runtime.Int64:      4,
	runtime.Uint64:     4,
	runtime.Acc64:      4,
}

// Decode decodes one fixed-width value of the given kind from the start of
// regs. Registers are big-endian, most significant register first. Signed
// raws are returned as int64, unsigned raws as uint64.
func Decode(kind runtime.PointKind, regs []uint16) (DecodeResult, error) {
	width, ok := pointKindRegisters[kind]
	if !ok {
		return DecodeResult{}, errors.Wrapf(runtime.ErrSchema, "kind %q is not fixed-width decodable", kind)
	}
	if len(regs) < width {
		return DecodeResult{}, errors.Wrapf(runtime.ErrProtocol, "register block too short for %s: have %d, want %d", kind, len(regs), width)
	}

	switch kind {
	case runtime.Int16, runtime.Sunssf:
		if regs[0] == runtime.InvalidInt16 {
			return DecodeResult{nil, 1}, nil
		}
		return DecodeResult{int64(int16(regs[0])), 1}, nil
	case runtime.Uint16, runtime.Enum16, runtime.Bitfield16:
		if regs[0] == runtime.InvalidUint16 {
			return DecodeResult{nil, 1}, nil
		}
		return DecodeResult{uint64(regs[0]), 1}, nil
	case runtime.Int32:
		v := regutil.ParseUint32Registers(regs)
		if v == runtime.InvalidInt32 {
			return DecodeResult{nil, 2}, nil
		}
		return DecodeResult{int64(int32(v)), 2}, nil
	case runtime.Uint32, runtime.Acc32:
		v := regutil.ParseUint32Registers(regs)
		if v == runtime.InvalidUint32 {
			return DecodeResult{nil, 2}, nil
		}
		return DecodeResult{uint64(v), 2}, nil
	case runtime.Int64:
		v := regutil.ParseUint64Registers(regs)
		if v == runtime.InvalidInt64 {
			return DecodeResult{nil, 4}, nil
		}
		return DecodeResult{int64(v), 4}, nil
	default: // Uint64, Acc64
		v := regutil.ParseUint64Registers(regs)
		if v == runtime.InvalidUint64 {
			return DecodeResult{nil, 4}, nil
		}
		return DecodeResult{v, 4}, nil
	}
}

// DecodeString decodes a fixed-size string of sizeBytes packed high byte
// first. Non-ASCII bytes are dropped, trailing NUL and space trimmed. An
// all-padding string decodes to "", never to an absent value.
func DecodeString(regs []uint16, sizeBytes int) (DecodeResult, error) {
	width := (sizeBytes + 1) / 2
	if len(regs) < width {
		return DecodeResult{}, errors.Wrapf(runtime.ErrProtocol, "register block too short for string: have %d, want %d", len(regs), width)
	}
	bs := regutil.RegistersToBytes(regs[:width])[:sizeBytes]
	ascii := make([]byte, 0, len(bs))
	for _, b := range bs {
		if b < 0x80 {
			ascii = append(ascii, b)
		}
	}
	s := strings.TrimRight(string(ascii), "\x00 ")
	return DecodeResult{s, width}, nil
}

// ApplyScale converts a raw reading into an engineering value using the
// base-10 exponent of a sunssf point.
func ApplyScale(raw float64, sf int16) float64 {
	return raw * math.Pow(10, float64(sf))
}

// PrecisionFromScale returns the decimal digits implied by a scale factor.
func PrecisionFromScale(sf int16) int {
	if sf >= 0 {
		return 0
	}
	return int(-sf)
}
