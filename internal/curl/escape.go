package curl

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var simpleEscapes = map[byte]string{
	'\\': `\`,
	'\'': `'`,
	'"':  `"`,
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
	'\n': "",
}

// decodeEscapes undoes backslash escapes the way a shell-quoted JSON payload
// usually carries them: \\ \' \" \a \b \f \n \r \t \v, octal, \xHH, \uXXXX and
// \UXXXXXXXX. Unknown escapes are kept verbatim. It reports false on a
// truncated or invalid escape so the caller can keep the raw text.
func decodeEscapes(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}

	var out strings.Builder
	var pending rune // high surrogate waiting for its pair

	flush := func() {
		if pending != 0 {
			out.WriteRune(utf8.RuneError)
			pending = 0
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			flush()
			out.WriteByte(c)
			continue
		}

		i++
		if i >= len(s) {
			return "", false
		}

		e := s[i]
		if repl, ok := simpleEscapes[e]; ok {
			flush()
			out.WriteString(repl)
			continue
		}

		switch {
		case e >= '0' && e <= '7':
			end := i + 1
			for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			n, _ := strconv.ParseUint(s[i:end], 8, 32)
			flush()
			out.WriteRune(rune(n))
			i = end - 1
		case e == 'x' || e == 'u' || e == 'U':
			width := escapeWidth(e)
			if i+width >= len(s) {
				return "", false
			}
			n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil || n > utf8.MaxRune {
				return "", false
			}
			r := rune(n)
			i += width

			switch {
			case utf16.IsSurrogate(r) && r < 0xDC00:
				flush()
				pending = r
			case utf16.IsSurrogate(r) && pending != 0:
				out.WriteRune(utf16.DecodeRune(pending, r))
				pending = 0
			default:
				flush()
				out.WriteRune(r)
			}
		default:
			flush()
			out.WriteByte('\\')
			out.WriteByte(e)
		}
	}

	flush()

	return out.String(), true
}

func escapeWidth(e byte) int {
	switch e {
	case 'x':
		return 2
	case 'u':
		return 4
	default:
		return 8
	}
}
