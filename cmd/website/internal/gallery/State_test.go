package gallery

import (
	"errors"
	"net/url"
	"testing"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestInitialState(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 1},
		{query: "page=3", want: 3},
		{query: "page=abc", want: 1},
		{query: "page=0", want: 1},
		{query: "page=-2", want: 1},
	}

	for _, tt := range tests {
		query, _ := url.ParseQuery(tt.query)
		assert.Equal(t, State{CurrentPage: tt.want}, InitialState(query), tt.query)
	}
}

func TestReduce(t *testing.T) {
	start := State{CurrentPage: 2}

	t.Run("page loaded moves to the reported page", func(t *testing.T) {
		got := Reduce(start, PageLoaded{Requested: 3, Result: models.PageResult{Page: 3}})
		assert.Equal(t, State{CurrentPage: 3}, got)
	})

	t.Run("page loaded prefers the page the server clamped to", func(t *testing.T) {
		got := Reduce(start, PageLoaded{Requested: 9, Result: models.PageResult{Page: 4, LastPage: true}})
		assert.Equal(t, State{CurrentPage: 4}, got)
	})

	t.Run("page loaded without a reported page keeps the requested page", func(t *testing.T) {
		got := Reduce(start, PageLoaded{Requested: 1})
		assert.Equal(t, State{CurrentPage: 1}, got)
	})

	t.Run("failures and deletes leave the page alone", func(t *testing.T) {
		actions := []Action{
			LoadFailed{Requested: 3, Err: errors.New("down")},
			DeleteSucceeded{Identity: "a.png"},
			DeleteFailed{Identity: "a.png", Err: errors.New("down")},
		}

		for _, action := range actions {
			assert.Equal(t, start, Reduce(start, action))
		}
	})
}

func TestPrevAndNextPage(t *testing.T) {
	_, ok := PrevPage(State{CurrentPage: 1})
	assert.False(t, ok)

	prev, ok := PrevPage(State{CurrentPage: 3})
	assert.True(t, ok)
	assert.Equal(t, 2, prev)

	assert.Equal(t, 2, NextPage(State{CurrentPage: 1}))
	assert.Equal(t, 6, NextPage(State{CurrentPage: 5}))
}
