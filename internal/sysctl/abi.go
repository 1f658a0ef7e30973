// Package sysctl reads batched binary sysctl output.
//
// `sysctl -b a b c` writes the raw values of every named node back to back,
// with no separators and no lengths. Decoding is purely positional: each field
// is read as a fixed number of unsigned integers whose width and byte order
// follow the appliance's ABI.
package sysctl

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
)

// ABI describes how the appliance lays out integers.
type ABI struct {
	Order binary.ByteOrder
	// LongSize is the width of C long and time_t, 4 or 8 bytes.
	LongSize int
}

// DefaultABI matches amd64 and arm64 appliances.
var DefaultABI = ABI{Order: binary.LittleEndian, LongSize: 8}

// ParseABI builds an ABI from config values. Endianness is "little" or "big".
func ParseABI(endianness string, longSize int) (ABI, error) {
	abi := ABI{LongSize: longSize}

	switch strings.ToLower(endianness) {
	case "little", "le":
		abi.Order = binary.LittleEndian
	case "big", "be":
		abi.Order = binary.BigEndian
	default:
		return ABI{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown endianness %q", endianness),
			"Set abi.endianness to 'little' or 'big'")
	}

	if longSize != 4 && longSize != 8 {
		return ABI{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported long size %d", longSize),
			"Set abi.long_size to 4 (32-bit appliance) or 8 (64-bit appliance)")
	}
	return abi, nil
}

// Width returns the byte width of one element of kind k.
func (a ABI) Width(k Kind) int {
	if k == Long {
		return a.LongSize
	}
	return 4
}

func (a ABI) String() string {
	order := "little"
	if a.Order == binary.BigEndian {
		order = "big"
	}
	return fmt.Sprintf("%s-endian, %d-byte long", order, a.LongSize)
}
