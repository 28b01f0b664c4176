package model

import "strings"

// Bullet prefixes every item line in a report body.
const Bullet = "• "

// NoNonConformities is the placeholder line of a report with nothing to show.
const NoNonConformities = "Nenhuma não conformidade registrada."

// GeneralHeading is the heading of the trailing general remarks section.
const GeneralHeading = "GERAL"

// NonConformityItem is one flagged checklist cell collected during assembly.
// It is created per row and consumed immediately into a Document.
type NonConformityItem struct {
	// DisplayName is the item label shown in the report.
	DisplayName string

	// Value is the raw cell value.
	Value CellValue

	// Column is the originating column name. The formatter needs it to
	// recognize extinguisher expiry dates.
	Column string
}

// Item is one formatted line of a report section.
type Item struct {
	// Label is the item name, printed in bold by most renderers.
	Label string `json:"label"`

	// Value is the formatted cell value. It may contain line breaks.
	Value string `json:"value"`

	// Lines holds the value split at line breaks. For block items only the
	// non-empty, trimmed lines are kept and each gets its own bullet.
	Lines []string `json:"lines"`

	// Block marks remark items whose lines are listed under the label
	// instead of following it inline.
	Block bool `json:"block,omitempty"`

	// Column is the source column the item came from.
	Column string `json:"column,omitempty"`
}

// Text returns the plain-text form of the item with "\n" as line break:
// "• Label: value" for inline items and
// "• Label:\n• line 1\n• line 2" for block items.
func (i Item) Text() string {
	var sb strings.Builder
	sb.WriteString(Bullet)
	sb.WriteString(i.Label)
	sb.WriteString(":")

	if i.Block {
		for _, line := range i.Lines {
			sb.WriteString("\n")
			sb.WriteString(Bullet)
			sb.WriteString(line)
		}
		return sb.String()
	}

	sb.WriteString(" ")
	sb.WriteString(strings.Join(i.Lines, "\n"))
	return sb.String()
}

// Section is a headed group of items.
type Section struct {
	// Area is the vehicle area. The general remarks section uses
	// AreaUnclassified.
	Area Area `json:"area"`

	// Heading is the display heading.
	Heading string `json:"heading"`

	// Items are in the order their columns appear in the source row.
	Items []Item `json:"items"`
}

// Density is the whitespace tier a renderer should use.
type Density int

const (
	// DensityLoose is used for short reports.
	DensityLoose Density = iota

	// DensityMedium is used for more than 10 items.
	DensityMedium

	// DensityTight is used for more than 20 items.
	DensityTight
)

// String returns the density name.
func (d Density) String() string {
	switch d {
	case DensityLoose:
		return "loose"
	case DensityMedium:
		return "medium"
	case DensityTight:
		return "tight"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Density) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Layout is a spacing hint for the external renderer. It never changes the
// document structure.
type Layout struct {
	Density Density `json:"density"`

	// ItemSpacing is the gap after each item, in points.
	ItemSpacing int `json:"item_spacing"`

	// SectionSpacing is the gap after each section, in points.
	SectionSpacing int `json:"section_spacing"`

	// ParagraphSpacing is the paragraph space-after, in points.
	ParagraphSpacing int `json:"paragraph_spacing"`
}

// LayoutFor returns the spacing tier for a given item count.
func LayoutFor(items int) Layout {
	switch {
	case items > 20:
		return Layout{Density: DensityTight, ItemSpacing: 1, SectionSpacing: 3, ParagraphSpacing: 1}
	case items > 10:
		return Layout{Density: DensityMedium, ItemSpacing: 2, SectionSpacing: 4, ParagraphSpacing: 2}
	default:
		return Layout{Density: DensityLoose, ItemSpacing: 3, SectionSpacing: 6, ParagraphSpacing: 3}
	}
}

// Document is the ordered body of a compliance report.
//
// Invariants: Sections follow the fixed area order and never contain an
// empty section; General, when present, comes last; Placeholder is set only
// when there are no sections and no general remarks.
type Document struct {
	Sections    []Section `json:"sections"`
	General     *Section  `json:"general,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Layout      Layout    `json:"layout"`
}

// ItemCount returns the number of area items plus one when general
// remarks are present.
func (d Document) ItemCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	if d.General != nil {
		n++
	}
	return n
}

// HasNonConformities reports whether any area section was emitted.
func (d Document) HasNonConformities() bool {
	return len(d.Sections) > 0
}

// Section returns the section for an area.
func (d Document) Section(area Area) (Section, bool) {
	for _, s := range d.Sections {
		if s.Area == area {
			return s, true
		}
	}
	return Section{}, false
}

// AllSections returns the area sections followed by the general section.
func (d Document) AllSections() []Section {
	out := make([]Section, 0, len(d.Sections)+1)
	out = append(out, d.Sections...)
	if d.General != nil {
		out = append(out, *d.General)
	}
	return out
}
