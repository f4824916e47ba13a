package main

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/mock_store"
	"github.com/nestwire/nestwire/server/store/types"
)

// testPresenceFixture wires a Presence engine over mocks with the user being
// a member of room 10 (channels 100 and 101) and room 20 (channel 200).
type testPresenceFixture struct {
	users    *mock_store.MockUsersPersister
	members  *mock_store.MockMembersPersister
	channels *mock_store.MockChannelsPersister

	rec    *deliveryRecorder
	engine *Presence
}

func newPresenceFixture(ctrl *gomock.Controller) *testPresenceFixture {
	f := &testPresenceFixture{
		users:    mock_store.NewMockUsersPersister(ctrl),
		members:  mock_store.NewMockMembersPersister(ctrl),
		channels: mock_store.NewMockChannelsPersister(ctrl),
		rec:      &deliveryRecorder{},
	}
	f.engine = newPresence(&store.Store{
		Users:    f.users,
		Members:  f.members,
		Channels: f.channels,
	}, f.rec)
	return f
}

// expectFanout sets up the membership and channel lookups one announcement
// performs for the user.
func (f *testPresenceFixture) expectFanout(user types.Uid, times int) {
	f.members.EXPECT().ForUser(user).Return([]types.Membership{
		*membershipRec(user, types.Uid(10), types.RoleMember),
		*membershipRec(user, types.Uid(20), types.RoleMember),
	}, nil).Times(times)
	f.channels.EXPECT().ForRoom(types.Uid(10)).Return([]types.Channel{
		*testChannelRec(types.Uid(100), types.Uid(10)),
		*testChannelRec(types.Uid(101), types.Uid(10)),
	}, nil).Times(times)
	f.channels.EXPECT().ForRoom(types.Uid(20)).Return([]types.Channel{
		*testChannelRec(types.Uid(200), types.Uid(20)),
	}, nil).Times(times)
}

func TestPresenceFirstSessionAnnounces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Get(user).Return(&types.User{Username: "alice"}, nil)
	f.users.EXPECT().UpdatePresence(user, types.PresenceOnline, nil).Return(nil)
	f.expectFanout(user, 1)

	f.engine.Connected(user)

	// One event per channel of every room the user belongs to.
	events := f.rec.byName(evtPresenceUpdated)
	if len(events) != 3 {
		t.Fatalf("expected 3 %s events, got %d", evtPresenceUpdated, len(events))
	}
	want := map[string]bool{
		topicChannel(types.Uid(100)): true,
		topicChannel(types.Uid(101)): true,
		topicChannel(types.Uid(200)): true,
	}
	for _, e := range events {
		if !want[e.topic] {
			t.Errorf("event delivered to unexpected topic %q", e.topic)
		}
	}
	payload := events[0].msg.Evt.Payload.(*EvtPresence)
	if payload.User != user.UserId() || payload.Status != string(types.PresenceOnline) {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if !f.engine.Online(user) {
		t.Error("user must be online after Connected")
	}
}

func TestPresenceSecondSessionSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	// Exactly one status write, for the first session.
	f.users.EXPECT().Get(user).Return(&types.User{Username: "alice"}, nil)
	f.users.EXPECT().UpdatePresence(user, types.PresenceOnline, nil).Return(nil)
	f.expectFanout(user, 1)

	f.engine.Connected(user)
	f.engine.Connected(user)

	if got := len(f.rec.byName(evtPresenceUpdated)); got != 3 {
		t.Errorf("expected 3 events from a single announcement, got %d", got)
	}
}

func TestPresenceLastSessionGoesOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Get(user).Return(&types.User{Username: "alice"}, nil).AnyTimes()
	f.users.EXPECT().UpdatePresence(user, types.PresenceOnline, nil).Return(nil)
	f.users.EXPECT().UpdatePresence(user, types.PresenceOffline, gomock.Not(gomock.Nil())).Return(nil)
	f.expectFanout(user, 2)

	f.engine.Connected(user)
	f.engine.Connected(user)
	f.engine.Disconnected(user)
	if !f.engine.Online(user) {
		t.Error("user must stay online while a session remains")
	}
	f.engine.Disconnected(user)
	if f.engine.Online(user) {
		t.Error("user must be offline after the last session is gone")
	}

	events := f.rec.byName(evtPresenceUpdated)
	// Two announcements, three channels each.
	if len(events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(events))
	}
	last := events[len(events)-1].msg.Evt.Payload.(*EvtPresence)
	if last.Status != string(types.PresenceOffline) {
		t.Errorf("expected offline announcement, got %q", last.Status)
	}
	if last.LastSeen == nil {
		t.Error("offline announcement must carry the last seen time")
	}
}

func TestPresenceHiddenStoredOnConnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Get(user).Return(&types.User{Username: "alice", HideStatus: true}, nil)
	// The stored status records hidden, not online.
	f.users.EXPECT().UpdatePresence(user, types.PresenceHidden, nil).Return(nil)

	f.engine.Connected(user)

	if f.rec.count() != 0 {
		t.Errorf("hidden user's status must not be announced, got %d events", f.rec.count())
	}
}

func TestSetStatusHide(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Update(user, map[string]any{"hidestatus": true}).Return(nil)
	f.users.EXPECT().UpdatePresence(user, types.PresenceHidden, nil).Return(nil)
	f.expectFanout(user, 1)

	if err := f.engine.SetStatus(user, "hide"); err != nil {
		t.Fatal("SetStatus failed:", err)
	}

	// Everyone else sees the user go offline immediately.
	events := f.rec.byName(evtPresenceUpdated)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	payload := events[0].msg.Evt.Payload.(*EvtPresence)
	if payload.Status != string(types.PresenceOffline) {
		t.Errorf("expected offline, got %q", payload.Status)
	}
}

func TestSetStatusUnhide(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Update(user, map[string]any{"hidestatus": false}).Return(nil)
	// No live session, so unhiding resolves to offline.
	f.users.EXPECT().UpdatePresence(user, types.PresenceOffline, nil).Return(nil)
	f.expectFanout(user, 1)

	if err := f.engine.SetStatus(user, "unhide"); err != nil {
		t.Fatal("SetStatus failed:", err)
	}

	events := f.rec.byName(evtPresenceUpdated)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	payload := events[0].msg.Evt.Payload.(*EvtPresence)
	if payload.Status != string(types.PresenceOffline) {
		t.Errorf("expected offline, got %q", payload.Status)
	}
}

func TestSetStatusWhileHiddenSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := types.Uid(1)
	f := newPresenceFixture(ctrl)
	f.users.EXPECT().Get(user).Return(&types.User{Username: "alice", HideStatus: true}, nil)

	// An explicit "online" of a hidden user changes and announces nothing.
	if err := f.engine.SetStatus(user, "online"); err != nil {
		t.Fatal("SetStatus failed:", err)
	}
	if f.rec.count() != 0 {
		t.Errorf("expected no events, got %d", f.rec.count())
	}
}

func TestSetStatusInvalid(t *testing.T) {
	p := newPresence(&store.Store{}, &deliveryRecorder{})
	if err := p.SetStatus(types.Uid(1), "bogus"); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestPresenceTargets(t *testing.T) {
	user := types.Uid(1)
	memberships := []types.Membership{
		*membershipRec(user, types.Uid(10), types.RoleMember),
		*membershipRec(user, types.Uid(20), types.RoleOwner),
		*membershipRec(user, types.Uid(30), types.RoleMember),
	}
	channelsByRoom := map[types.Uid][]types.Channel{
		types.Uid(10): {
			*testChannelRec(types.Uid(100), types.Uid(10)),
			*testChannelRec(types.Uid(101), types.Uid(10)),
		},
		types.Uid(20): {
			*testChannelRec(types.Uid(200), types.Uid(20)),
		},
		// Room 30 has no loaded channels, so it contributes nothing.
	}

	topics := presenceTargets(memberships, channelsByRoom)
	want := []string{
		topicChannel(types.Uid(100)),
		topicChannel(types.Uid(101)),
		topicChannel(types.Uid(200)),
	}
	if len(topics) != len(want) {
		t.Fatalf("expected %d topics, got %d: %v", len(want), len(topics), topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topic %d: expected %q, got %q", i, want[i], topics[i])
		}
	}
}

func TestPresenceTargetsNoMemberships(t *testing.T) {
	if topics := presenceTargets(nil, nil); len(topics) != 0 {
		t.Errorf("expected no topics, got %v", topics)
	}
}
