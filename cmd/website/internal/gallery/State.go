package gallery

import (
	"net/url"
	"strconv"

	"github.com/adampresley/imagegallery/pkg/models"
)

/*
State is the gallery's view state. CurrentPage is always the last page that
loaded successfully.
*/
type State struct {
	CurrentPage int
}

type Action interface {
	isAction()
}

// PageLoaded is dispatched when a list fetch for Requested resolved.
type PageLoaded struct {
	Requested int
	Result    models.PageResult
}

type LoadFailed struct {
	Requested int
	Err       error
}

type DeleteSucceeded struct {
	Identity string
}

type DeleteFailed struct {
	Identity string
	Err      error
}

func (PageLoaded) isAction()      {}
func (LoadFailed) isAction()      {}
func (DeleteSucceeded) isAction() {}
func (DeleteFailed) isAction()    {}

/*
InitialState reads the page query parameter. Missing, non-numeric and
non-positive values start at page 1.
*/
func InitialState(query url.Values) State {
	page, err := strconv.Atoi(query.Get("page"))

	if err != nil || page < 1 {
		page = 1
	}

	return State{CurrentPage: page}
}

/*
Reduce applies an action to a state and returns the new state. Only a
resolved page load moves the current page. The page the server reports wins
over the requested one, since the server may clamp it.
*/
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case PageLoaded:
		page := a.Result.Page

		if page < 1 {
			page = a.Requested
		}

		if page < 1 {
			return state
		}

		return State{CurrentPage: page}
	}

	return state
}

/*
PrevPage returns the page "Prev" navigates to, and false when the gallery is
already on the first page.
*/
func PrevPage(state State) (int, bool) {
	if state.CurrentPage > 1 {
		return state.CurrentPage - 1, true
	}

	return 0, false
}

// NextPage is unconditional; the server signals the end through last_page.
func NextPage(state State) int {
	return state.CurrentPage + 1
}
