package grammar

import "regexp"

const (
	handleMinLen = 3
	handleMaxLen = 17
)

// ValidHandle reports whether s is an acceptable FICS login name:
// 3 to 17 ASCII letters.
func ValidHandle(s string) bool {
	if len(s) < handleMinLen || len(s) > handleMaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}

// MoveString formats a move in coordinate form from zero-based board indices.
// Ranks are counted from the top of the board, so rank 0 is the eighth rank.
func MoveString(fromFile, fromRank, toFile, toRank int) string {
	return string([]byte{
		byte('a' + fromFile),
		byte('8' - fromRank),
		byte('a' + toFile),
		byte('8' - toRank),
	})
}

// Full returns re anchored at both ends of the input.
func Full(re *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile(`\A(?:` + re.String() + `)\z`)
}

// Prefix returns re anchored at the start of the input.
func Prefix(re *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile(`\A(?:` + re.String() + `)`)
}
