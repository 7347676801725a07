package shortcode

import (
	"context"

	"ngo-cms/pkg/models"

	"github.com/google/uuid"
)

type galleryOptions struct {
	ID       string `validate:"required"`
	Mode     string `validate:"oneof=carousel grid"`
	Items    int    `validate:"min=1,max=12"`
	Columns  int    `validate:"min=1,max=6"`
	Autoplay bool
	Speed    int `validate:"min=500"`
}

type galleryImage struct {
	Full   string
	Medium string
	Alt    string
}

type galleryView struct {
	ElementID string
	Options   galleryOptions
	Images    []galleryImage
	Carousel  Carousel
	Small     int
	Medium    int
	Large     int
	Lightbox  bool
}

func (e *Expander) gallery(ctx context.Context, r *Render, a Attrs) string {
	opts := galleryOptions{
		ID:       a.String("id", ""),
		Mode:     a.String("mode", "carousel"),
		Items:    a.Int("items", 4),
		Columns:  a.Int("columns", 3),
		Autoplay: a.Bool("autoplay", true),
		Speed:    a.Int("speed", 3000),
	}
	if opts.ID == "" {
		return inlineError(`Please provide a gallery ID. Example: [gallery_photo id="123"]`)
	}
	if err := validate.Struct(opts); err != nil {
		return validationError("gallery_photo", err)
	}

	images := e.galleryImages(opts.ID)
	if len(images) == 0 {
		return "<p>No images found in this gallery.</p>"
	}

	view := galleryView{
		ElementID: "gallery-" + uuid.NewString(),
		Options:   opts,
		Images:    images,
		Carousel:  Carousel{Total: len(images), Items: opts.Items},
		Small:     ItemsForWidth(BreakpointSmall-1, opts.Items, false),
		Medium:    ItemsForWidth(BreakpointMedium-1, opts.Items, false),
		Large:     ItemsForWidth(BreakpointLarge-1, opts.Items, false),
		Lightbox:  !r.lightbox,
	}
	r.lightbox = true
	return execute("gallery", view)
}

// galleryImages resolves the attachment ids of a gallery record, skipping
// ids that no longer exist.
func (e *Expander) galleryImages(slug string) []galleryImage {
	rec, err := e.deps.Repo.Record(models.TypeGallery, slug)
	if err != nil {
		return nil
	}
	var out []galleryImage
	for _, id := range rec.Images {
		att, err := e.deps.Media.Get(id)
		if err != nil {
			continue
		}
		out = append(out, galleryImage{Full: att.URL, Medium: att.URL, Alt: att.Alt})
	}
	return out
}
