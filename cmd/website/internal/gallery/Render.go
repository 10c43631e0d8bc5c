package gallery

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/imagegallery/pkg/models"
)

const (
	EmptyMessage = "No images uploaded yet"
)

func HistoryURL(page int) string {
	return fmt.Sprintf("/images/?page=%d", page)
}

func FragmentURL(page int) string {
	return fmt.Sprintf("/images/fragment?page=%d", page)
}

func ImageURL(identity string) string {
	return "/images/" + url.PathEscape(identity)
}

func DeleteURL(identity string, page int) string {
	return fmt.Sprintf("/images/delete/%s?page=%d", url.PathEscape(identity), page)
}

/*
RenderCard maps an image record to its card.
*/
func RenderCard(record models.ImageRecord) viewmodels.ImageCard {
	identity := record.Identity()

	return viewmodels.ImageCard{
		Identity:    identity,
		ImageURL:    ImageURL(identity),
		DisplayName: record.DisplayName(),
		SizeText:    record.SizeText(),
		UploadDate:  record.UploadDate,
	}
}

/*
RenderPage maps a loaded page to the gallery fragment. state must already
reflect the loaded page.
*/
func RenderPage(state State, result models.PageResult) viewmodels.GalleryPage {
	page := state.CurrentPage

	view := viewmodels.GalleryPage{
		Cards:        make([]viewmodels.ImageCard, 0, len(result.Images)),
		Page:         page,
		PageLabel:    strconv.Itoa(page),
		NextDisabled: result.LastPage,
		NextURL:      FragmentURL(NextPage(state)),
		HistoryURL:   HistoryURL(page),
	}

	if prev, ok := PrevPage(state); ok {
		view.PrevURL = FragmentURL(prev)
	} else {
		view.PrevDisabled = true
	}

	if len(result.Images) == 0 {
		view.IsEmpty = true
		view.EmptyMessage = EmptyMessage
		return view
	}

	for _, record := range result.Images {
		card := RenderCard(record)
		card.DeleteURL = DeleteURL(card.Identity, page)
		view.Cards = append(view.Cards, card)
	}

	return view
}
