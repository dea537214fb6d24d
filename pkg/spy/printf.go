package spy

import (
	"strings"

	"digital.vasic.doubles/pkg/format"
)

// Printf renders a diagnostic template against the spy:
//
//	%n  the spy's name
//	%c  the call count as a word ("once", "twice", "4 times")
//	%C  every recorded call, one per indented line
//	%t  the receivers of all calls
//	%*  args, comma separated
//	%%  a literal percent sign
//
// Unknown verbs are copied unchanged.
func (s *Spy) Printf(template string, args ...any) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '%' || i == len(template)-1 {
			b.WriteByte(ch)
			continue
		}

		i++
		switch template[i] {
		case 'n':
			b.WriteString(s.Name())
		case 'c':
			b.WriteString(format.Times(s.CallCount()))
		case 'C':
			b.WriteString(RenderCalls(s.Calls()))
		case 't':
			b.WriteString(format.Values(s.Receivers()))
		case '*':
			b.WriteString(format.Values(args))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}
	return b.String()
}

// RenderCalls renders calls one per line, each preceded by a
// newline and four spaces.
func RenderCalls(calls []*Call) string {
	var b strings.Builder
	for _, c := range calls {
		b.WriteString("\n    ")
		b.WriteString(c.String())
	}
	return b.String()
}
