package transport

import "strings"

// Prompt terminates every server reply once the session is logged in.
const Prompt = "fics% "

const (
	iac  = 0xff
	sb   = 0xfa
	se   = 0xf0
	will = 0xfb
	dont = 0xfe
)

// Splitter turns raw session bytes into prompt-delimited chunks. Line endings
// are normalised to "\n" and telnet negotiation is dropped.
type Splitter struct {
	buf     strings.Builder
	pending []byte
}

// Write consumes raw bytes and returns every chunk completed by a prompt.
func (s *Splitter) Write(p []byte) []string {
	data := append(s.pending, p...)
	s.pending = nil

	clean := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == iac:
			n := telnetCommandLen(data[i:])
			if n == 0 {
				s.pending = append(s.pending, data[i:]...)
				i = len(data)
				continue
			}
			i += n - 1
		case c == '\r':
		default:
			clean = append(clean, c)
		}
	}
	s.buf.Write(clean)

	var out []string
	for {
		text := s.buf.String()
		idx := strings.Index(text, Prompt)
		if idx < 0 {
			break
		}
		out = append(out, text[:idx])
		rest := text[idx+len(Prompt):]
		s.buf.Reset()
		s.buf.WriteString(rest)
	}
	return out
}

// telnetCommandLen reports the length of the IAC sequence at the start of b,
// or 0 when it is incomplete.
func telnetCommandLen(b []byte) int {
	if len(b) < 2 {
		return 0
	}
	switch op := b[1]; {
	case op == iac:
		return 2
	case op == sb:
		for i := 2; i+1 < len(b); i++ {
			if b[i] == iac && b[i+1] == se {
				return i + 2
			}
		}
		return 0
	case op >= will && op <= dont:
		if len(b) < 3 {
			return 0
		}
		return 3
	default:
		return 2
	}
}
