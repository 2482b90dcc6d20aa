package jtl

// SourceCode is the result of a render: the asset it came from, the extracted structure,
// the raw template text and the rendered output.
type SourceCode struct {
	asset     Asset
	structure *CodeStructure
	raw       string
	rendered  string
}

// NewSourceCode creates a render result.
func NewSourceCode(asset Asset, structure *CodeStructure, raw, rendered string) *SourceCode {
	return &SourceCode{
		asset:     asset,
		structure: structure,
		raw:       raw,
		rendered:  rendered,
	}
}

// Asset returns the asset the template text was loaded from.
func (s *SourceCode) Asset() Asset {
	return s.asset
}

// Structure returns the structure extracted from the raw text.
func (s *SourceCode) Structure() *CodeStructure {
	return s.structure
}

// Raw returns the template text before rendering.
func (s *SourceCode) Raw() string {
	return s.raw
}

// Rendered returns the output text.
func (s *SourceCode) Rendered() string {
	return s.rendered
}

// String returns the rendered output.
func (s *SourceCode) String() string {
	return s.rendered
}

// Equal reports whether both results have equal assets, structures, raw and rendered text.
// Assets are equal when they share a location.
func (s *SourceCode) Equal(other *SourceCode) bool {
	if s == nil || other == nil {
		return s == other
	}
	return sameAsset(s.asset, other.asset) &&
		s.structure.Equal(other.structure) &&
		s.raw == other.raw &&
		s.rendered == other.rendered
}

func sameAsset(a, b Asset) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Location() == b.Location()
}
