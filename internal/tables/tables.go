// =============================================================================
// rackport - Configuration Table Parser
// =============================================================================
//
// This module turns the flat mapping strings of the settings file into the
// lookup tables the porting engine reads:
//   - DefinitionTable : type -> ordered (source cell, dest cell) copies
//   - OverlayTable    : type -> ordered (device cell, host cell) pairs
//   - WordTable       : discriminator text -> type
//   - SheetNameTable  : type -> template sheet name
//   - special device  : one CableRecord injected into the cable index
//   - replace words   : substrings stripped from copied text
//
// GRAMMAR:
//   entries are separated by ',' and fields inside an entry by '|'.
//   Field values are kept verbatim; nothing is trimmed.
//
// ERROR HANDLING:
//   The strings are operator-authored, so a malformed entry fails the whole
//   build with a *ParseError naming the key and the entry. An empty string
//   is an empty table.
//
// =============================================================================

package tables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/sirupsen/logrus"
)

const (
	entrySeparator = ","
	fieldSeparator = "|"
)

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError describes one malformed configuration entry.
type ParseError struct {
	// Key is the configuration key the string came from.
	Key string

	// Entry is the offending entry text.
	Entry string

	// Index is the 0-based position of the entry in the string.
	Index int

	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("config %s: entry %d %q: %s", e.Key, e.Index, e.Entry, e.Reason)
}

// =============================================================================
// TABLES
// =============================================================================

// Tables bundles every table one run needs. It is built once and only read
// afterwards.
type Tables struct {
	Definitions  types.DefinitionTable
	Overlays     types.OverlayTable
	Words        types.WordTable
	SheetNames   types.SheetNameTable
	Special      types.CableRecord
	ReplaceWords []string
}

// Build parses every mapping string of the porting settings.
func Build(p config.Porting) (*Tables, error) {
	t := &Tables{
		Definitions: types.DefinitionTable{},
		Overlays:    types.OverlayTable{},
	}

	var err error
	if t.Definitions[types.SixUnit], err = ParsePairs("definition_6u", p.Definition6U); err != nil {
		return nil, err
	}
	if t.Definitions[types.FourteenUnit], err = ParsePairs("definition_14u", p.Definition14U); err != nil {
		return nil, err
	}
	if t.Overlays[types.SixUnit], err = ParsePairs("target_6u_device_to_host", p.Target6UDeviceToHost); err != nil {
		return nil, err
	}
	if t.Overlays[types.FourteenUnit], err = ParsePairs("target_14u_device_to_host", p.Target14UDeviceToHost); err != nil {
		return nil, err
	}
	if t.Words, err = ParseWordTable("word_to_type", p.WordToType); err != nil {
		return nil, err
	}
	if t.SheetNames, err = ParseSheetNameTable("format_sheet_name", p.FormatSheetName); err != nil {
		return nil, err
	}
	if t.Special, err = ParseSpecialDevice("cable_special_device", p.CableSpecialDevice); err != nil {
		return nil, err
	}
	if t.ReplaceWords, err = ParseWordList("replace_word", p.ReplaceWord); err != nil {
		return nil, err
	}

	return t, nil
}

// Dump writes every table at trace level.
func (t *Tables) Dump(log *logrus.Entry) {
	log.Trace("== start print ==")
	for _, typ := range types.KnownTypes {
		for _, m := range t.Definitions[typ] {
			log.WithField("type", typ).Tracef("definition %s", m)
		}
		for _, m := range t.Overlays[typ] {
			log.WithField("type", typ).Tracef("overlay %s", m)
		}
		if name, ok := t.SheetNames[typ]; ok {
			log.WithField("type", typ).Tracef("template sheet %q", name)
		}
	}
	for word, typ := range t.Words {
		log.WithField("type", typ).Tracef("word %q", word)
	}
	log.WithField("replace_words", t.ReplaceWords).Trace("replace words")
	log.Trace("== end print ==")
}

// =============================================================================
// PARSERS
// =============================================================================

// ParsePairs parses "a|b,c|d" into ordered cell mappings.
func ParsePairs(key, s string) ([]types.CellMapping, error) {
	var out []types.CellMapping
	err := eachEntry(key, s, 2, func(_ int, fields []string) error {
		out = append(out, types.CellMapping{Source: fields[0], Dest: fields[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseWordTable parses "word|typeId,...".
func ParseWordTable(key, s string) (types.WordTable, error) {
	out := types.WordTable{}
	err := eachEntry(key, s, 2, func(i int, fields []string) error {
		typ, err := parseTypeID(fields[1])
		if err != nil {
			return err
		}
		if _, dup := out[fields[0]]; dup {
			return fmt.Errorf("duplicate word %q", fields[0])
		}
		out[fields[0]] = typ
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSheetNameTable parses "typeId|sheetName,...".
func ParseSheetNameTable(key, s string) (types.SheetNameTable, error) {
	out := types.SheetNameTable{}
	err := eachEntry(key, s, 2, func(i int, fields []string) error {
		typ, err := parseTypeID(fields[0])
		if err != nil {
			return err
		}
		if _, dup := out[typ]; dup {
			return fmt.Errorf("duplicate type id %d", int(typ))
		}
		out[typ] = fields[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSpecialDevice parses "rack|deviceNameAndNumber|host". The special
// device is always injected into the cable index, so it is required.
func ParseSpecialDevice(key, s string) (types.CableRecord, error) {
	if s == "" {
		return types.CableRecord{}, &ParseError{Key: key, Reason: "special device is required"}
	}
	fields := strings.Split(s, fieldSeparator)
	if len(fields) != 3 {
		return types.CableRecord{}, &ParseError{
			Key:    key,
			Entry:  s,
			Reason: fmt.Sprintf("expected 3 '|'-separated fields, got %d", len(fields)),
		}
	}
	return types.CableRecord{
		RackName:            fields[0],
		DeviceNameAndNumber: fields[1],
		HostName:            fields[2],
	}, nil
}

// ParseWordList parses the comma-separated replace words.
func ParseWordList(key, s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	words := strings.Split(s, entrySeparator)
	for i, w := range words {
		if w == "" {
			return nil, &ParseError{Key: key, Entry: w, Index: i, Reason: "empty replace word"}
		}
	}
	return words, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// eachEntry splits s into entries and calls fn with exactly want fields.
// Any error from fn is wrapped in a ParseError for that entry.
func eachEntry(key, s string, want int, fn func(i int, fields []string) error) error {
	if s == "" {
		return nil
	}
	for i, entry := range strings.Split(s, entrySeparator) {
		fields := strings.Split(entry, fieldSeparator)
		if len(fields) != want {
			return &ParseError{
				Key:    key,
				Entry:  entry,
				Index:  i,
				Reason: fmt.Sprintf("expected %d '|'-separated fields, got %d", want, len(fields)),
			}
		}
		if err := fn(i, fields); err != nil {
			return &ParseError{Key: key, Entry: entry, Index: i, Reason: err.Error()}
		}
	}
	return nil
}

func parseTypeID(s string) (types.TypeDiscriminator, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return types.Unknown, fmt.Errorf("type id %q is not a number", s)
	}
	return types.ParseTypeID(id)
}
