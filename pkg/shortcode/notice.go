package shortcode

import (
	"context"

	"ngo-cms/pkg/models"
	"ngo-cms/pkg/services"
)

type noticeOptions struct {
	Count int `validate:"min=1,max=20"`
}

type noticeCard struct {
	Title   string
	URL     string
	Date    string
	Excerpt string
	HasPDF  bool
}

type noticeView struct {
	Settings   services.NoticeSettings
	ArchiveURL string
	Cards      []noticeCard
}

const noticeExcerptWords = 25

func (e *Expander) latestNotice(ctx context.Context, r *Render, a Attrs) string {
	opts := noticeOptions{Count: a.Int("count", 1)}
	if err := validate.Struct(opts); err != nil {
		return validationError("latest_notice", err)
	}

	notices, err := e.deps.Repo.Records(models.TypeNotice)
	if err != nil || len(notices) == 0 {
		return ""
	}
	if len(notices) > opts.Count {
		notices = notices[:opts.Count]
	}

	view := noticeView{
		Settings:   services.LoadNoticeSettings(e.deps.Options),
		ArchiveURL: e.deps.Registry.ArchiveURL(models.TypeNotice),
	}
	for _, rec := range notices {
		excerpt := rec.Excerpt
		if excerpt == "" {
			excerpt, _ = services.RenderMarkdown(rec.Body)
		}
		view.Cards = append(view.Cards, noticeCard{
			Title:   rec.Title,
			URL:     e.deps.Registry.Permalink(models.TypeNotice, rec.Slug),
			Date:    rec.Date.Format("Jan 2, 2006"),
			Excerpt: services.TrimWords(excerpt, noticeExcerptWords),
			HasPDF:  e.deps.Meta.NoticePDF(rec) != "",
		})
	}
	return execute("notice", view)
}
