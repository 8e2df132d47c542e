package lsp

import protocol "github.com/tliron/glsp/protocol_3_16"

// lineColumn mirrors internal/parser's offset->position helper; kept
// local since the LSP layer needs both directions (offset->Position for
// diagnostics, Position->offset for code-action cursor lookup) and
// parser's version is unexported.
func lineColumn(content []byte, offset int) (line, column uint32) {
	if offset > len(content) {
		offset = len(content)
	}
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			column = 0
		} else {
			column++
		}
	}
	return line, column
}

func rangeForOffsets(content []byte, start, end int) protocol.Range {
	sl, sc := lineColumn(content, start)
	el, ec := lineColumn(content, end)
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

// offsetForPosition converts an LSP Position back to a byte offset by
// scanning content line by line.
func offsetForPosition(content []byte, pos protocol.Position) int {
	line, col := uint32(0), uint32(0)
	for i, b := range content {
		if line == pos.Line && col == pos.Character {
			return i
		}
		if b == '\n' {
			if line == pos.Line {
				// Requested column is past this line's end.
				return i
			}
			line++
			col = 0
		} else {
			col++
		}
	}
	return len(content)
}
