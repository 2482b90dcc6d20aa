package internal

import "sort"

// MatchMode selects how opening and closing markers are paired.
type MatchMode int

const (
	// MatchModeNested balances same-kind nesting and scopes conditionals inside loop bodies
	// to the loop iteration.
	MatchModeNested MatchMode = iota
	// MatchModeLegacy lets the first closing marker terminate a block and scans every
	// pass over the whole text.
	MatchModeLegacy
)

// Match mode names
const (
	MatchModeNameNested = "nested"
	MatchModeNameLegacy = "legacy"
)

// String returns the string representation of the match mode
func (m MatchMode) String() string {
	switch m {
	case MatchModeLegacy:
		return MatchModeNameLegacy
	default:
		return MatchModeNameNested
	}
}

// ParseMatchMode converts a name to a MatchMode, defaulting to nested.
func ParseMatchMode(name string) (MatchMode, bool) {
	switch name {
	case MatchModeNameNested, StringValueEmpty:
		return MatchModeNested, true
	case MatchModeNameLegacy:
		return MatchModeLegacy, true
	default:
		return MatchModeNested, false
	}
}

// BlockKind identifies a paired construct.
type BlockKind int

const (
	BlockKindIf BlockKind = iota
	BlockKindEach
)

func (k BlockKind) openType() TokenType {
	if k == BlockKindEach {
		return TokenTypeEachOpen
	}
	return TokenTypeIfOpen
}

func (k BlockKind) closeType() TokenType {
	if k == BlockKindEach {
		return TokenTypeEachClose
	}
	return TokenTypeIfClose
}

// Block is a matched opening/closing marker pair.
type Block struct {
	Kind  BlockKind
	Open  Token
	Close Token
}

// Start is the offset of the opening marker.
func (b Block) Start() int { return b.Open.Start }

// End is the offset just past the closing marker.
func (b Block) End() int { return b.Close.End }

// Argument is the condition or items path of the block.
func (b Block) Argument() string { return b.Open.Value }

// Inner returns the verbatim content between the markers.
func (b Block) Inner(source string) string {
	return source[b.Open.End:b.Close.Start]
}

// Raw returns the block including both markers.
func (b Block) Raw(source string) string {
	return source[b.Start():b.End()]
}

// Contains reports whether offset falls inside the block.
func (b Block) Contains(offset int) bool {
	return offset >= b.Start() && offset < b.End()
}

// MatchBlocks returns the outermost non-overlapping blocks of kind in textual order.
func MatchBlocks(tokens []Token, kind BlockKind, mode MatchMode) []Block {
	if mode == MatchModeLegacy {
		return matchFirstClose(tokens, kind)
	}
	return matchBalanced(tokens, kind)
}

// MatchBlocksOutside is MatchBlocks ignoring every token that lies inside one of exclude.
func MatchBlocksOutside(tokens []Token, kind BlockKind, mode MatchMode, exclude []Block) []Block {
	if len(exclude) == 0 {
		return MatchBlocks(tokens, kind, mode)
	}
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if !WithinAny(tok.Start, exclude) {
			filtered = append(filtered, tok)
		}
	}
	return MatchBlocks(filtered, kind, mode)
}

// WithinAny reports whether offset falls inside one of blocks.
func WithinAny(offset int, blocks []Block) bool {
	for _, b := range blocks {
		if b.Contains(offset) {
			return true
		}
	}
	return false
}

// matchFirstClose pairs every opening marker with the next closing marker of its kind.
// Markers in between are swallowed into the block content.
func matchFirstClose(tokens []Token, kind BlockKind) []Block {
	var blocks []Block
	openType, closeType := kind.openType(), kind.closeType()

	for i := 0; i < len(tokens); i++ {
		if tokens[i].Type != openType {
			continue
		}
		closeAt := -1
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j].Type == closeType {
				closeAt = j
				break
			}
		}
		if closeAt < 0 {
			break
		}
		blocks = append(blocks, Block{Kind: kind, Open: tokens[i], Close: tokens[closeAt]})
		i = closeAt
	}
	return blocks
}

// matchBalanced pairs markers by nesting depth and keeps only outermost pairs.
// An unclosed outer marker does not hide balanced pairs nested inside it.
func matchBalanced(tokens []Token, kind BlockKind) []Block {
	var pairs []Block
	var stack []Token
	openType, closeType := kind.openType(), kind.closeType()

	for _, tok := range tokens {
		switch tok.Type {
		case openType:
			stack = append(stack, tok)
		case closeType:
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, Block{Kind: kind, Open: open, Close: tok})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Start() < pairs[j].Start()
	})

	var outermost []Block
	for _, p := range pairs {
		if len(outermost) > 0 && outermost[len(outermost)-1].Contains(p.Start()) {
			continue
		}
		outermost = append(outermost, p)
	}
	return outermost
}
