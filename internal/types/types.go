// =============================================================================
// rackport - Shared Types
// =============================================================================
//
// This package contains the domain types shared by the table parser, the
// cable index builder and the porting engine. Keeping them here avoids
// import cycles between:
//   - tables
//   - cable
//   - porting
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// TYPE DISCRIMINATOR
// =============================================================================

// TypeDiscriminator identifies which porting rules apply to a source sheet.
// The numeric values are the ids used in the configuration strings.
type TypeDiscriminator int

const (
	// SixUnit is the 6U rack layout.
	SixUnit TypeDiscriminator = 6

	// FourteenUnit is the 14U rack layout.
	FourteenUnit TypeDiscriminator = 14

	// Unknown is the fallback for an unrecognised discriminator word.
	// Nothing is registered under it, so sheets of this type are skipped.
	Unknown TypeDiscriminator = 91
)

// KnownTypes lists the discriminators that carry porting rules, in the order
// their template sheets are removed from the output.
var KnownTypes = []TypeDiscriminator{SixUnit, FourteenUnit}

// ParseTypeID converts a configured numeric id into a TypeDiscriminator.
// Only the known rack layouts are accepted.
func ParseTypeID(id int) (TypeDiscriminator, error) {
	switch t := TypeDiscriminator(id); t {
	case SixUnit, FourteenUnit:
		return t, nil
	default:
		return Unknown, fmt.Errorf("unknown type id %d", id)
	}
}

// String returns the readable label used in logs.
func (t TypeDiscriminator) String() string {
	switch t {
	case SixUnit:
		return "6U"
	case FourteenUnit:
		return "14U"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// =============================================================================
// CELL MAPPING
// =============================================================================

// CellMapping is one copy instruction: the value at Source is written to Dest.
// Both are A1-style cell addresses.
type CellMapping struct {
	Source string
	Dest   string
}

// String renders the mapping as "A1-->B2".
func (m CellMapping) String() string {
	return m.Source + "-->" + m.Dest
}

// DefinitionTable holds the ordered copy instructions per rack layout.
type DefinitionTable map[TypeDiscriminator][]CellMapping

// OverlayTable holds the (device cell, host cell) pairs per rack layout.
// Both cells address the ported sheet.
type OverlayTable map[TypeDiscriminator][]CellMapping

// WordTable resolves discriminator text to a rack layout.
type WordTable map[string]TypeDiscriminator

// Resolve returns the layout for word, or Unknown when it is not registered.
func (w WordTable) Resolve(word string) TypeDiscriminator {
	if t, ok := w[word]; ok {
		return t
	}
	return Unknown
}

// SheetNameTable resolves a rack layout to its template sheet name.
type SheetNameTable map[TypeDiscriminator]string

// =============================================================================
// CABLE RECORDS
// =============================================================================

// CableRecord is one device row of the cable reference workbook.
type CableRecord struct {
	// RackName is the rack column text, already filtered by prefix.
	RackName string

	// DeviceNameAndNumber is the device name and number concatenated with no
	// separator. It is the index key.
	DeviceNameAndNumber string

	// HostName is written into the ported sheet on an overlay hit.
	HostName string
}

// CableIndex maps DeviceNameAndNumber to its record.
type CableIndex map[string]CableRecord

// HostName looks up the host name for a device.
func (c CableIndex) HostName(device string) (string, bool) {
	rec, ok := c[device]
	if !ok {
		return "", false
	}
	return rec.HostName, true
}
