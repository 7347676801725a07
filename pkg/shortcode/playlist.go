package shortcode

import (
	"context"
	"html"

	"ngo-cms/pkg/models"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/youtube"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type playlistOptions struct {
	ID       string `validate:"required"`
	Mode     string `validate:"oneof=grid list carousel"`
	Columns  int    `validate:"min=1,max=6"`
	Items    int    `validate:"min=1,max=12"`
	Limit    int    `validate:"min=1,max=50"`
	Autoplay bool
	Speed    int `validate:"min=500"`
}

type videoView struct {
	Number    int
	ID        string
	Title     string
	Thumbnail string
	Ago       string
}

type playlistView struct {
	ElementID string
	Options   playlistOptions
	Videos    []videoView
	Carousel  Carousel
	Small     int
	Medium    int
	Large     int
	Modal     bool
}

// FallbackEmbed is rendered when the feed yields no videos.
func FallbackEmbed(playlistID string) string {
	return `<div class="youtube-playlist-error"><strong>Note:</strong> Unable to fetch playlist videos. Showing embedded playlist instead.` +
		`<div class="youtube-playlist-embed"><iframe width="100%" height="400" src="` + youtube.EmbedURL + html.EscapeString(playlistID) +
		`" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div></div>`
}

func (e *Expander) playlist(ctx context.Context, r *Render, a Attrs) string {
	id := a.String("id", "")
	if id == "" {
		return inlineError(`Please provide a playlist ID. Example: [playlist_embed id="123"]`)
	}

	var settings services.PlaylistSettings
	if rec, err := e.deps.Repo.Record(models.TypePlaylist, id); err == nil {
		settings = e.deps.Meta.Playlist(rec)
	}
	if settings.ID == "" {
		return inlineError("Invalid playlist. Please configure the playlist settings.")
	}

	mode := settings.DisplayMode
	if mode == "" {
		mode = "grid"
	}
	opts := playlistOptions{
		ID:       id,
		Mode:     a.String("mode", mode),
		Columns:  a.Int("columns", 3),
		Items:    a.Int("items", 4),
		Limit:    a.Int("limit", 20),
		Autoplay: a.Bool("autoplay", true),
		Speed:    a.Int("speed", 3000),
	}
	if err := validate.Struct(opts); err != nil {
		return validationError("playlist_embed", err)
	}

	videos := e.deps.YouTube.PlaylistVideos(ctx, settings.ID, opts.Limit)
	if len(videos) == 0 {
		return FallbackEmbed(settings.ID)
	}

	view := playlistView{
		ElementID: "yt-playlist-" + uuid.NewString(),
		Options:   opts,
		Carousel:  Carousel{Total: len(videos), Items: opts.Items},
		Small:     ItemsForWidth(BreakpointSmall-1, opts.Items, true),
		Medium:    ItemsForWidth(BreakpointMedium-1, opts.Items, true),
		Large:     ItemsForWidth(BreakpointLarge-1, opts.Items, true),
		Modal:     !r.modal,
	}
	for i, v := range videos {
		vv := videoView{Number: i + 1, ID: v.ID, Title: v.Title, Thumbnail: v.Thumbnail}
		if !v.Published.IsZero() {
			vv.Ago = humanize.Time(v.Published)
		}
		view.Videos = append(view.Videos, vv)
	}
	r.modal = true
	return execute("playlist", view)
}
