package model

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/fics/grammar"
)

// disposition is a handler's verdict on what the transcript shows.
type disposition int

const (
	// echoGroups appends the rule's echo groups and reports the chunk consumed.
	echoGroups disposition = iota
	// silent leaves the transcript alone and reports the chunk unconsumed.
	silent
	// echoText appends the whole chunk.
	echoText
)

type mode int

const (
	modeFull mode = iota
	modePrefix
	modeSearch
)

type handler func(*Model, match) disposition

type rule struct {
	name string
	re   *regexp.Regexp
	echo []int
	// continuation rules echo their match and dispatch the rest of the chunk.
	continuation bool
	handle       handler
}

func newRule(name string, md mode, re *regexp.Regexp, h handler, echo ...int) rule {
	switch md {
	case modeFull:
		re = grammar.Full(re)
	case modePrefix:
		re = grammar.Prefix(re)
	}
	return rule{name: name, re: re, echo: echo, handle: h}
}

func continuationRule(name string, re *regexp.Regexp) rule {
	r := newRule(name, modePrefix, re, nil)
	r.continuation = true
	return r
}

// match wraps submatch indices so absent groups can be told from empty ones.
type match struct {
	text string
	idx  []int
}

func (mt match) group(i int) string {
	if 2*i+1 >= len(mt.idx) || mt.idx[2*i] < 0 {
		return ""
	}
	return mt.text[mt.idx[2*i]:mt.idx[2*i+1]]
}

func (mt match) has(i int) bool { return 2*i+1 < len(mt.idx) && mt.idx[2*i] >= 0 }

func (mt match) end() int { return mt.idx[1] }

// groups returns every group as a string, "" for absent ones.
func (mt match) groups() []string {
	out := make([]string, len(mt.idx)/2)
	for i := range out {
		out[i] = mt.group(i)
	}
	return out
}

func (r rule) match(text string) (match, bool) {
	idx := r.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return match{}, false
	}
	return match{text: text, idx: idx}, true
}

// Dispatch decodes one chunk of server output. It reports whether the
// transcript advanced.
func (m *Model) Dispatch(text string) bool {
	for _, r := range beforeFallback {
		mt, ok := r.match(text)
		if !ok {
			continue
		}
		if r.continuation {
			m.echo(mt.group(0))
			m.Dispatch(text[mt.end():])
			return true
		}
		switch r.handle(m, mt) {
		case silent:
			return false
		case echoText:
			m.echo(text)
		default:
			parts := make([]string, 0, len(r.echo))
			for _, g := range r.echo {
				parts = append(parts, mt.group(g))
			}
			m.echo(parts...)
		}
		return true
	}

	m.echo(text)
	for _, r := range afterFallback {
		if mt, ok := r.match(text); ok {
			r.handle(m, mt)
			return true
		}
	}
	if ce := m.logger.Check(zap.DebugLevel, "fics: not parsed"); ce != nil {
		ce.Write(zap.String("text", strings.ReplaceAll(text, "\n", `\n`)))
	}
	return true
}
