package bacsync

import (
	"strconv"
	"strings"
)

//Token classification is purely lexical: a run of decimal digits is
//an integer, everything else is an identifier. No quoting or escaping
//is supported

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenInteger
)

type token struct {
	kind tokenKind
	text string
	num  uint32
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

//tokenize splits a read specification on whitespace and classifies
//each field
func tokenize(spec string) []token {
	fields := strings.Fields(spec)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		t := token{kind: tokenIdent, text: f}
		if isDigits(f) {
			if n, err := strconv.ParseUint(f, 10, 32); err == nil {
				t.kind = tokenInteger
				t.num = uint32(n)
			}
		}
		tokens = append(tokens, t)
	}
	return tokens
}
