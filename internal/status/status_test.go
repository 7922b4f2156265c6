package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"pending", Pending},
		{"NEW", Pending},
		{"new ", Pending},
		{"in_progress", Confirmed},
		{"In Progress", Confirmed},
		{"inprogress", Confirmed},
		{"in_progress\t", Confirmed},
		{"in_progress\n", Confirmed},
		{"  in   progress  ", Confirmed},
		{"done", Done},
		{"cancelled_by_user", CancelledByUser},
		{"CANCELLED", Cancelled},
		{"something_else", "something_else"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.raw), "raw %q", tt.raw)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{Pending, Confirmed},
		{Pending, Cancelled},
		{Pending, CancelledByUser},
		{Confirmed, Done},
		{Confirmed, Cancelled},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{Pending, Done},
		{Confirmed, CancelledByUser},
		{Done, Pending},
		{Cancelled, Confirmed},
		{CancelledByUser, Pending},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	// Синонимы применяются и к аргументам перехода
	assert.True(t, CanTransition("new", "in progress"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(Pending))
	assert.False(t, IsTerminal(Confirmed))
	assert.True(t, IsTerminal(Done))
	assert.True(t, IsTerminal(Cancelled))
	assert.True(t, IsTerminal(CancelledByUser))
}
