package pgn

import (
	"strconv"
	"strings"
)

// lineWidth is the movetext wrap column recommended by the PGN export format.
const lineWidth = 80

// Format renders a complete game: tag pairs, a blank line, numbered movetext
// and the result token. moves are SAN tokens starting from the initial position.
func Format(moves []string, meta Metadata) string {
	var sb strings.Builder
	for _, t := range meta.Tags() {
		sb.WriteByte('[')
		sb.WriteString(t.Name)
		sb.WriteString(` "`)
		sb.WriteString(escape(t.Value))
		sb.WriteString("\"]\n")
	}
	sb.WriteByte('\n')

	result := meta.Result
	if result == "" {
		result = "*"
	}
	col := 0
	word := func(w string) {
		switch {
		case col == 0:
		case col+1+len(w) > lineWidth:
			sb.WriteByte('\n')
			col = 0
		default:
			sb.WriteByte(' ')
			col++
		}
		sb.WriteString(w)
		col += len(w)
	}
	for i, m := range moves {
		if i%2 == 0 {
			word(strconv.Itoa(i/2+1) + ".")
		}
		word(m)
	}
	word(result)
	sb.WriteByte('\n')
	return sb.String()
}

func escape(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
