package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Only the shapes JSON can produce are emitted, and
// object fields become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := viaJSON(v)
	if err != nil {
		return err
	}

	p := ednPrinter{pretty: pretty}
	p.value(x, 0)
	p.buf.WriteByte('\n')
	_, err = w.Write(p.buf.Bytes())
	return err
}

type ednPrinter struct {
	buf    bytes.Buffer
	pretty bool
}

const ednIndent = 2

func (p *ednPrinter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("nil")
	case bool:
		p.buf.WriteString(strconv.FormatBool(t))
	case string:
		p.buf.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			p.buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			p.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		p.coll('[', ']', len(t), depth, func(i int) { p.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		p.coll('{', '}', len(keys), depth, func(i int) {
			p.buf.WriteString(":" + ednKeyword(keys[i]) + " ")
			p.value(t[keys[i]], depth+1)
		})
	default:
		p.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// coll writes n elements between open and end, one per line when pretty.
func (p *ednPrinter) coll(open, end byte, n, depth int, elem func(int)) {
	p.buf.WriteByte(open)
	if n == 0 {
		p.buf.WriteByte(end)
		return
	}
	sep := " "
	if p.pretty {
		sep = "\n" + strings.Repeat(" ", (depth+1)*ednIndent)
		p.buf.WriteString(sep)
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			p.buf.WriteString(sep)
		}
		elem(i)
	}
	if p.pretty {
		p.buf.WriteString("\n" + strings.Repeat(" ", depth*ednIndent))
	}
	p.buf.WriteByte(end)
}

// ednKeyword turns a field name into a keyword. Dotted config keys like
// "fade.duration" keep their namespace as "fade/duration".
func ednKeyword(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
	return strings.Replace(s, ".", "/", 1)
}
