package locale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errNotEnoughArgs     = errors.New("not enough arguments for template")
	errMalformedTemplate = errors.New("malformed template")
)

// format substitutes positional placeholders. "{}" takes the next argument, "{N}" takes
// argument N, "{{" and "}}" are literal braces. Automatic and explicit numbering cannot
// be mixed in one template. Extra arguments are ignored.
func format(tmpl string, args []any) (string, error) {
	const (
		numberingNone = iota
		numberingAuto
		numberingManual
	)

	var b strings.Builder
	b.Grow(len(tmpl))
	numbering := numberingNone
	next := 0

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", errMalformedTemplate
			}
			field := tmpl[i+1 : i+1+end]

			var idx int
			if field == "" {
				if numbering == numberingManual {
					return "", errMalformedTemplate
				}
				numbering = numberingAuto
				idx = next
				next++
			} else {
				n, err := strconv.Atoi(field)
				if err != nil || n < 0 || numbering == numberingAuto {
					return "", errMalformedTemplate
				}
				numbering = numberingManual
				idx = n
			}

			if idx >= len(args) {
				return "", errNotEnoughArgs
			}
			fmt.Fprint(&b, args[idx])
			i += end + 2
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", errMalformedTemplate
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), nil
}
