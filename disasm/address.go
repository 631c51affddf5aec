package disasm

import "fmt"

// Address is an optional program address. The zero value is absent, so an
// anchor found at address 0 stays distinguishable from a missing one.
type Address struct {
	value uint64
	valid bool
}

// AddressOf returns a present address.
func AddressOf(v uint64) Address {
	return Address{value: v, valid: true}
}

// Value returns the address and whether it is present.
func (a Address) Value() (uint64, bool) {
	return a.value, a.valid
}

// Valid tells if the address is present.
func (a Address) Valid() bool {
	return a.valid
}

// Matches tells if the address is present and equal to pc.
func (a Address) Matches(pc uint64) bool {
	return a.valid && a.value == pc
}

func (a Address) String() string {
	if !a.valid {
		return "<none>"
	}
	return fmt.Sprintf("%08x", a.value)
}
