// Package disasm reads objdump style disassembly listings and locates the
// labels delimiting the compared region of a program.
package disasm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Labels placed around the measured region of every benchmark.
const (
	DefaultStartLabel = "address_match_start"
	DefaultEndLabel   = "address_match_end"
)

// ErrAddressNotFound is returned when a listing lacks an anchor label.
var ErrAddressNotFound = errors.New("address not found")

const maxLineSize = 1024 * 1024

// Listing is a parsed disassembly listing.
type Listing struct {
	Path    string
	Symbols *SymbolTable
}

// ParseListing scans a listing once and collects every "<label>:" line.
func ParseListing(r io.Reader) (*Listing, error) {
	l := &Listing{Symbols: NewSymbolTable()}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		name, addr, ok := parseLabelLine(scanner.Text())
		if ok {
			l.Symbols.Add(name, addr)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return l, nil
}

// ReadListing parses the listing stored at path.
func ReadListing(path string) (*Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := ParseListing(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.Path = path
	return l, nil
}

// parseLabelLine accepts lines containing "<label>:" after a hex address,
// like "80000010 <address_match_start>:". The address may carry a 0x
// prefix.
func parseLabelLine(line string) (string, uint64, bool) {
	open := strings.Index(line, "<")
	if open < 0 {
		return "", 0, false
	}
	end := strings.Index(line[open:], ">:")
	if end < 0 {
		return "", 0, false
	}
	label := line[open+1 : open+end]

	fields := strings.Fields(line[:open])
	if len(fields) == 0 || label == "" {
		return "", 0, false
	}
	tok := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	addr, err := strconv.ParseUint(tok, 16, 64)
	if err != nil {
		return "", 0, false
	}
	return label, addr, true
}

// Anchors are the two addresses delimiting the compared region.
type Anchors struct {
	StartLabel string
	EndLabel   string
	Start      Address
	End        Address
}

// Anchors looks up the start and end labels.
func (l *Listing) Anchors(startLabel, endLabel string) Anchors {
	return Anchors{
		StartLabel: startLabel,
		EndLabel:   endLabel,
		Start:      l.Symbols.Address(startLabel),
		End:        l.Symbols.Address(endLabel),
	}
}

// Validate reports ErrAddressNotFound if either anchor is absent.
func (a Anchors) Validate() error {
	var missing []string
	if !a.Start.Valid() {
		missing = append(missing, a.StartLabel)
	}
	if !a.End.Valid() {
		missing = append(missing, a.EndLabel)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: <%s>", ErrAddressNotFound,
			strings.Join(missing, ">, <"))
	}
	return nil
}

// LocateAnchors reads the listing at path and returns both anchors. The
// listing is returned even when an anchor is missing.
func LocateAnchors(path, startLabel, endLabel string) (Anchors, *Listing, error) {
	l, err := ReadListing(path)
	if err != nil {
		return Anchors{}, nil, err
	}

	a := l.Anchors(startLabel, endLabel)
	if err := a.Validate(); err != nil {
		return a, l, fmt.Errorf("%s: %w", path, err)
	}
	return a, l, nil
}

func formatHex(v uint64) string {
	return strconv.FormatUint(v, 16)
}
