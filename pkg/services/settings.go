package services

import (
	"ngo-cms/pkg/store"
)

// Notice display option names.
const (
	OptionNoticeSectionTitle = "notice_section_title"
	OptionNoticeButtonText   = "notice_button_text"
	OptionNoticeReadMoreText = "notice_read_more_text"
	OptionNoticeViewPDFText  = "notice_view_pdf_text"
)

type NoticeSettings struct {
	SectionTitle string `form:"section_title"`
	ButtonText   string `form:"button_text"`
	ReadMoreText string `form:"read_more_text"`
	ViewPDFText  string `form:"view_pdf_text"`
}

func DefaultNoticeSettings() NoticeSettings {
	return NoticeSettings{
		SectionTitle: "Latest Notice",
		ButtonText:   "View All Notices",
		ReadMoreText: "Read More",
		ViewPDFText:  "View PDF",
	}
}

func LoadNoticeSettings(options *store.OptionStore) NoticeSettings {
	d := DefaultNoticeSettings()
	return NoticeSettings{
		SectionTitle: options.Get(OptionNoticeSectionTitle, d.SectionTitle),
		ButtonText:   options.Get(OptionNoticeButtonText, d.ButtonText),
		ReadMoreText: options.Get(OptionNoticeReadMoreText, d.ReadMoreText),
		ViewPDFText:  options.Get(OptionNoticeViewPDFText, d.ViewPDFText),
	}
}

// SaveNoticeSettings stores each setting; a blank value restores the default.
func SaveNoticeSettings(options *store.OptionStore, s NoticeSettings) error {
	for name, value := range map[string]string{
		OptionNoticeSectionTitle: s.SectionTitle,
		OptionNoticeButtonText:   s.ButtonText,
		OptionNoticeReadMoreText: s.ReadMoreText,
		OptionNoticeViewPDFText:  s.ViewPDFText,
	} {
		value = SanitizeText(value)
		var err error
		if value == "" {
			err = options.Delete(name)
		} else {
			err = options.Set(name, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
