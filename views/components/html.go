package components

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// markup renders a component by filling a builder.
func markup(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// href sanitizes a link target through templ before escaping it.
func href(s string) string {
	return esc(string(templ.URL(s)))
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func csrfField(b *strings.Builder, token string) {
	if token == "" {
		return
	}
	b.WriteString(`<input type="hidden" name="_csrf" value="` + esc(token) + `"/>`)
}

func placeholderOnError(b *strings.Builder, placeholder string) {
	if placeholder == "" {
		return
	}
	b.WriteString(` onerror="this.onerror=null;this.src='` + esc(placeholder) + `'"`)
}
