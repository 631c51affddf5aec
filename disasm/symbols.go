package disasm

import (
	"github.com/google/btree"
)

type symbol struct {
	addr uint64
	name string
}

func (s symbol) Less(than btree.Item) bool {
	return s.addr < than.(symbol).addr
}

// SymbolTable indexes the labels of a listing by address.
type SymbolTable struct {
	tree   *btree.BTree
	byName map[string]uint64
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		tree:   btree.New(8),
		byName: make(map[string]uint64),
	}
}

// Add records a label. A later label with the same name replaces the
// earlier address.
func (t *SymbolTable) Add(name string, addr uint64) {
	t.tree.ReplaceOrInsert(symbol{addr: addr, name: name})
	t.byName[name] = addr
}

// Len returns the number of distinct symbol addresses.
func (t *SymbolTable) Len() int {
	return t.tree.Len()
}

// Address returns the address of the named label.
func (t *SymbolTable) Address(name string) Address {
	addr, found := t.byName[name]
	if !found {
		return Address{}
	}
	return AddressOf(addr)
}

// Resolve finds the closest label at or below pc.
func (t *SymbolTable) Resolve(pc uint64) (name string, offset uint64, found bool) {
	t.tree.DescendLessOrEqual(symbol{addr: pc}, func(i btree.Item) bool {
		s := i.(symbol)
		name, offset, found = s.name, pc-s.addr, true
		return false
	})
	return name, offset, found
}

// Describe renders pc as label+offset, or an empty string when no label
// precedes pc.
func (t *SymbolTable) Describe(pc uint64) string {
	name, offset, found := t.Resolve(pc)
	switch {
	case !found:
		return ""
	case offset == 0:
		return "<" + name + ">"
	default:
		return "<" + name + "+0x" + formatHex(offset) + ">"
	}
}
