// Package shortcode expands [name attr=value] directives in rendered bodies.
package shortcode

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/store"
	"ngo-cms/pkg/youtube"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("shortcode").ParseFS(templateFS, "templates/*.html"))

var validate = validator.New()

// Deps are the read paths a shortcode may use.
type Deps struct {
	Repo     services.Repository
	Meta     *services.Meta
	Media    *services.Media
	Options  *store.OptionStore
	Registry *schema.Registry
	YouTube  *youtube.Client
}

// Render holds state shared by all shortcodes of one page render.
type Render struct {
	lightbox bool
	modal    bool
}

type Func func(ctx context.Context, r *Render, a Attrs) string

type Expander struct {
	deps  Deps
	funcs map[string]Func
}

// New registers the gallery, playlist and notice shortcodes with their aliases.
func New(deps Deps) *Expander {
	e := &Expander{deps: deps, funcs: map[string]Func{}}
	e.Register(e.gallery, "gallery_photo", "photo_gallery")
	e.Register(e.playlist, "playlist_embed", "youtube_playlist")
	e.Register(e.latestNotice, "latest_notice", "mousumi_latest_notice")
	return e
}

func (e *Expander) Register(fn Func, names ...string) {
	for _, n := range names {
		e.funcs[n] = fn
	}
}

func (e *Expander) Names() []string {
	out := make([]string, 0, len(e.funcs))
	for n := range e.funcs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Expand replaces known shortcodes in content. A paragraph holding nothing
// but a shortcode is unwrapped first. Unknown names are left as written.
func (e *Expander) Expand(ctx context.Context, content string) string {
	r := &Render{}
	content = paraRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := paraRe.FindStringSubmatch(m)
		name := tagRe.FindStringSubmatch(sub[1])[1]
		if _, ok := e.funcs[name]; !ok {
			return m
		}
		return sub[1]
	})
	return tagRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := tagRe.FindStringSubmatch(m)
		fn, ok := e.funcs[sub[1]]
		if !ok {
			return m
		}
		return fn(ctx, r, ParseAttrs(sub[2]))
	})
}

func execute(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.L().Error("shortcode template failed", zap.String("template", name), zap.Error(err))
		return ""
	}
	return buf.String()
}

func inlineError(msg string) string {
	return `<p style="color: red;">` + html.EscapeString(msg) + `</p>`
}

// validationError lists the offending attributes.
func validationError(code string, err error) string {
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
	}
	return inlineError(fmt.Sprintf("Invalid %s attributes: %s", code, strings.Join(fields, ", ")))
}
