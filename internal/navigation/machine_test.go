package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amfitom1ne123-maker/UV/internal/session"
)

type harness struct {
	machine *Machine
	history *MemoryHistory
	back    *HostBackButton
	state   session.State
	closed  int
}

func newHarness(t *testing.T, state session.State, regOutstanding bool, fragment string) *harness {
	t.Helper()
	h := &harness{
		history: NewMemoryHistory(fragment),
		back:    NewHostBackButton(),
		state:   state,
	}
	h.machine = NewMachine(Config{
		History:                 h.history,
		Back:                    h.back,
		Session:                 func() session.State { return h.state },
		CloseApp:                func() { h.closed++ },
		RegistrationOutstanding: regOutstanding,
	})
	h.machine.Start()
	t.Cleanup(h.machine.Teardown)
	return h
}

func TestGoto_GuardForcesAuth(t *testing.T) {
	screens := []Screen{
		ScreenMenu, ScreenServices, ScreenRequest, ScreenHistory, ScreenRequestDetails,
		ScreenProfile, ScreenMap, ScreenNews, ScreenPayments, ScreenOperator,
	}
	for _, target := range screens {
		t.Run(string(target), func(t *testing.T) {
			h := newHarness(t, session.NeedsRegistration, true, "#menu")
			h.machine.Goto(target, "x")
			assert.Equal(t, ScreenAuth, h.machine.Current())
			assert.Equal(t, "#auth", h.history.CurrentFragment())
		})
	}
}

func TestGoto_PushesCanonicalFragment(t *testing.T) {
	h := newHarness(t, session.Authenticated, false, "#menu")

	h.machine.Goto(ScreenHistory)
	assert.Equal(t, ScreenHistory, h.machine.Current())
	assert.Equal(t, "#history", h.history.CurrentFragment())

	h.machine.Goto(ScreenRequestDetails, "abc123")
	assert.Equal(t, "#request-abc123", h.history.CurrentFragment())
	assert.Equal(t, "abc123", h.machine.Param())

	// Экран создания заявки не имеет канонического фрагмента
	before := len(h.history.Entries())
	h.machine.Goto(ScreenRequest, "plumb")
	assert.Equal(t, ScreenRequest, h.machine.Current())
	assert.Len(t, h.history.Entries(), before)
}

func TestColdStart_DeepLink(t *testing.T) {
	t.Run("parameterized fragment", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#request-abc123")
		assert.Equal(t, ScreenRequestDetails, h.machine.Current())
		assert.Equal(t, "abc123", h.machine.Param())
	})

	t.Run("literal fragment", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#map")
		assert.Equal(t, ScreenMap, h.machine.Current())
	})

	t.Run("unknown fragment is inert", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#unknown")
		assert.Equal(t, ScreenMenu, h.machine.Current())
	})

	t.Run("registration outstanding ignores deep link", func(t *testing.T) {
		h := newHarness(t, session.Bootstrapping, true, "#history")
		assert.Equal(t, ScreenAuth, h.machine.Current())
	})
}

func TestFragmentChange_DeepLink(t *testing.T) {
	h := newHarness(t, session.Authenticated, false, "#menu")

	h.history.SetFragment("#request-r42")
	assert.Equal(t, ScreenRequestDetails, h.machine.Current())
	assert.Equal(t, "r42", h.machine.Param())

	h.history.SetFragment("#unknown")
	assert.Equal(t, ScreenRequestDetails, h.machine.Current(), "unknown fragment must not change the screen")
}

func TestBack_Table(t *testing.T) {
	t.Run("auth to menu", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#menu")
		h.machine.Goto(ScreenAuth)
		h.machine.Back()
		assert.Equal(t, ScreenMenu, h.machine.Current())
	})

	t.Run("request to services", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#menu")
		h.machine.Goto(ScreenServices)
		h.machine.Goto(ScreenRequest, "plumb")
		h.machine.Back()
		assert.Equal(t, ScreenServices, h.machine.Current())
	})

	t.Run("request details to history replaces fragment", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#menu")
		h.machine.Goto(ScreenHistory)
		h.machine.Goto(ScreenRequestDetails, "abc")
		entries := len(h.history.Entries())

		h.machine.Back()
		assert.Equal(t, ScreenHistory, h.machine.Current())
		assert.Equal(t, "#history", h.history.CurrentFragment())
		assert.Len(t, h.history.Entries(), entries, "back must replace, not push")
	})

	t.Run("services honours cameFrom and clears it", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#menu")
		h.machine.Goto(ScreenHistory)
		h.machine.Goto(ScreenServices)
		require.Equal(t, ScreenHistory, h.machine.CameFrom())

		h.machine.Back()
		assert.Equal(t, ScreenHistory, h.machine.Current())
		assert.Equal(t, Screen(""), h.machine.CameFrom())
	})

	t.Run("services without cameFrom goes to menu", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#services")
		require.Equal(t, ScreenServices, h.machine.Current())
		h.machine.Back()
		assert.Equal(t, ScreenMenu, h.machine.Current())
	})

	t.Run("lateral screens go to menu", func(t *testing.T) {
		for _, s := range []Screen{ScreenProfile, ScreenMap, ScreenNews, ScreenPayments, ScreenOperator} {
			h := newHarness(t, session.Authenticated, false, "#menu")
			h.machine.Goto(s)
			h.machine.Back()
			assert.Equal(t, ScreenMenu, h.machine.Current(), "from %s", s)
		}
	})

	t.Run("menu delegates to host close", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#menu")
		h.machine.Back()
		assert.Equal(t, ScreenMenu, h.machine.Current())
		assert.Equal(t, 1, h.closed)
	})

	t.Run("unauthenticated back forces auth", func(t *testing.T) {
		h := newHarness(t, session.Authenticated, false, "#history")
		h.state = session.NeedsRegistration
		h.machine.Back()
		assert.Equal(t, ScreenAuth, h.machine.Current())
		assert.Equal(t, "#auth", h.history.CurrentFragment())
	})
}

func TestBack_HostButtonRoutesToSameHandler(t *testing.T) {
	h := newHarness(t, session.Authenticated, false, "#menu")
	h.machine.Goto(ScreenHistory)

	h.back.Trigger()
	assert.Equal(t, ScreenMenu, h.machine.Current())
}

func TestBackSubscription_Idempotent(t *testing.T) {
	h := newHarness(t, session.Authenticated, false, "#menu")

	// Многократные переходы переустанавливают подписку, но обработчик
	// всегда ровно один
	h.machine.Goto(ScreenHistory)
	h.machine.Goto(ScreenServices)
	h.machine.Goto(ScreenMap)
	assert.Equal(t, 1, h.back.HandlerCount())

	h.machine.Teardown()
	assert.Equal(t, 0, h.back.HandlerCount())
}

func TestSessionResolved(t *testing.T) {
	t.Run("failure replaces deep link with auth", func(t *testing.T) {
		h := newHarness(t, session.Bootstrapping, false, "#request-abc")
		require.Equal(t, ScreenRequestDetails, h.machine.Current())

		h.state = session.NeedsRegistration
		h.machine.SessionResolved(session.NeedsRegistration)
		assert.Equal(t, ScreenAuth, h.machine.Current())
		assert.Equal(t, "#auth", h.history.CurrentFragment())
	})

	t.Run("success moves auth to menu", func(t *testing.T) {
		h := newHarness(t, session.Bootstrapping, true, "#auth")
		h.state = session.Authenticated
		h.machine.SessionResolved(session.Authenticated)
		assert.Equal(t, ScreenMenu, h.machine.Current())
	})

	t.Run("success keeps non-auth screen", func(t *testing.T) {
		h := newHarness(t, session.Bootstrapping, false, "#history")
		h.state = session.Authenticated
		h.machine.SessionResolved(session.Authenticated)
		assert.Equal(t, ScreenHistory, h.machine.Current())
	})
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		fragment string
		want     Route
		ok       bool
	}{
		{"#auth", Route{Screen: ScreenAuth}, true},
		{"#menu", Route{Screen: ScreenMenu}, true},
		{"#request-abc123", Route{Screen: ScreenRequestDetails, Param: "abc123"}, true},
		{"request-abc", Route{Screen: ScreenRequestDetails, Param: "abc"}, true},
		{"#request-", Route{}, false},
		{"#unknown", Route{}, false},
		{"", Route{}, false},
		{"#", Route{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseFragment(tt.fragment)
		assert.Equal(t, tt.ok, ok, "fragment %q", tt.fragment)
		assert.Equal(t, tt.want, got, "fragment %q", tt.fragment)
	}
}

func TestRouteFragment_Roundtrip(t *testing.T) {
	for _, r := range []Route{
		{Screen: ScreenAuth}, {Screen: ScreenMenu}, {Screen: ScreenServices},
		{Screen: ScreenHistory}, {Screen: ScreenProfile}, {Screen: ScreenMap},
		{Screen: ScreenNews}, {Screen: ScreenPayments}, {Screen: ScreenOperator},
		{Screen: ScreenRequestDetails, Param: "id1"},
	} {
		fragment, ok := r.Fragment()
		require.True(t, ok, "route %+v", r)
		parsed, ok := ParseFragment(fragment)
		require.True(t, ok, "fragment %q", fragment)
		assert.Equal(t, r, parsed)
	}

	_, ok := (Route{Screen: ScreenRequest}).Fragment()
	assert.False(t, ok)
}
