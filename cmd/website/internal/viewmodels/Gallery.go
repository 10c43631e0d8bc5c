package viewmodels

import (
	"html/template"
)

/*
ImageCard is one rendered image. ImageURL is both the thumbnail source and
its link target.
*/
type ImageCard struct {
	Identity    string
	ImageURL    string
	DisplayName string
	SizeText    string
	UploadDate  string
	DeleteURL   string
}

/*
GalleryPage is the gallery fragment: the cards, the pagination controls and
the history entry for the loaded page. When IsEmpty is set the cards and the
pagination nav are not rendered and EmptyMessage is shown instead.
*/
type GalleryPage struct {
	Cards        []ImageCard
	Page         int
	PageLabel    string
	PrevDisabled bool
	NextDisabled bool
	PrevURL      string
	NextURL      string
	HistoryURL   string
	IsEmpty      bool
	EmptyMessage string
}

type ImagesPage struct {
	BaseViewModel

	Gallery template.HTML
}
