package main

import (
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/mock_store"
	"github.com/nestwire/nestwire/server/store/types"
)

// testMessagesFixture wires a Messages engine over mocks with a member (uid 1)
// and a second member (uid 2) of a server room.
type testMessagesFixture struct {
	users    *mock_store.MockUsersPersister
	rooms    *mock_store.MockRoomsPersister
	channels *mock_store.MockChannelsPersister
	members  *mock_store.MockMembersPersister
	messages *mock_store.MockMessagesPersister
	reacts   *mock_store.MockReactionsPersister
	markers  *mock_store.MockMarkersPersister

	rec    *deliveryRecorder
	engine *Messages
}

func newMessagesFixture(ctrl *gomock.Controller) *testMessagesFixture {
	f := &testMessagesFixture{
		users:    mock_store.NewMockUsersPersister(ctrl),
		rooms:    mock_store.NewMockRoomsPersister(ctrl),
		channels: mock_store.NewMockChannelsPersister(ctrl),
		members:  mock_store.NewMockMembersPersister(ctrl),
		messages: mock_store.NewMockMessagesPersister(ctrl),
		reacts:   mock_store.NewMockReactionsPersister(ctrl),
		markers:  mock_store.NewMockMarkersPersister(ctrl),
		rec:      &deliveryRecorder{},
	}
	s := &store.Store{
		Users:     f.users,
		Rooms:     f.rooms,
		Channels:  f.channels,
		Members:   f.members,
		Messages:  f.messages,
		Reactions: f.reacts,
		Markers:   f.markers,
	}
	roster := newRoster(s, f.rec, nil, nil)
	f.engine = newMessages(s, f.rec, roster, newReceipts(s, f.rec))
	return f
}

// expectMember sets up the lookups which grant the user read and post access
// to channel 100 of room 10.
func (f *testMessagesFixture) expectMember(user types.Uid, kind types.RoomKind) {
	room, ch := types.Uid(10), types.Uid(100)
	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil).AnyTimes()
	f.rooms.EXPECT().Get(room).Return(testRoomRec(room, types.Uid(2), kind, true), nil).AnyTimes()
	f.members.EXPECT().Get(room, user).Return(membershipRec(user, room, types.RoleMember), nil).AnyTimes()
}

func TestPostFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, other, room, ch := types.Uid(1), types.Uid(2), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	now := types.TimeNow()
	f.messages.EXPECT().Save(gomock.Any()).DoAndReturn(
		func(msg *types.Message) (*types.Message, error) {
			if msg.Channel != ch || msg.From != author || msg.Content != "hello" {
				t.Errorf("unexpected message record: %+v", msg)
			}
			if msg.Type != types.MessageText {
				t.Errorf("expected default type text, got %q", msg.Type)
			}
			msg.SeqId = 7
			msg.CreatedAt = now
			return msg, nil
		})
	author1 := types.User{Username: "alice", Public: "Alice"}
	author1.SetUid(author)
	f.users.EXPECT().GetAll(author).Return([]types.User{author1}, nil)
	f.members.EXPECT().ForRoom(room).Return([]types.Membership{
		*membershipRec(author, room, types.RoleMember),
		*membershipRec(other, room, types.RoleMember),
	}, nil)
	f.markers.EXPECT().Get(other, ch).Return(&types.ReadMarker{User: other, Channel: ch, LastReadSeq: 4}, nil)
	f.messages.EXPECT().CountSince(ch, int64(4), other).Return(3, nil)

	seq, err := f.engine.Post(author, ch, &MsgClientPub{Content: "hello"})
	if err != nil {
		t.Fatal("Post failed:", err)
	}
	if seq != 7 {
		t.Errorf("expected seq 7, got %d", seq)
	}

	received := f.rec.byName(evtReceiveMessage)
	if len(received) != 1 {
		t.Fatalf("expected 1 %s event, got %d", evtReceiveMessage, len(received))
	}
	if received[0].topic != topicChannel(ch) {
		t.Errorf("message delivered to %q, expected the channel topic", received[0].topic)
	}
	evt := received[0].msg.Evt.Payload.(*EvtMessage)
	if evt.Seq != 7 || evt.Content != "hello" || evt.FromName != "Alice" {
		t.Errorf("unexpected payload: %+v", evt)
	}

	// Notification goes to the other member only, never back to the author.
	notes := f.rec.byName(evtMessageNotification)
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].topic != topicUser(other) {
		t.Errorf("notification delivered to %q, expected %q", notes[0].topic, topicUser(other))
	}
	note := notes[0].msg.Evt.Payload.(*EvtNotification)
	if note.Preview != "hello" || note.From != author.UserId() {
		t.Errorf("unexpected notification: %+v", note)
	}
	// The recipient's own unread count rides along with the notification.
	if note.Unread != 3 {
		t.Errorf("expected unread 3, got %d", note.Unread)
	}
}

func TestPostDMNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, peer, room, ch := types.Uid(1), types.Uid(2), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindDM)

	f.messages.EXPECT().Save(gomock.Any()).DoAndReturn(
		func(msg *types.Message) (*types.Message, error) {
			msg.SeqId = 1
			msg.CreatedAt = types.TimeNow()
			return msg, nil
		})
	f.users.EXPECT().GetAll(author).Return(nil, nil)
	f.members.EXPECT().ForRoom(room).Return([]types.Membership{
		*membershipRec(author, room, types.RoleMember),
		*membershipRec(peer, room, types.RoleMember),
	}, nil)
	f.markers.EXPECT().Get(peer, ch).Return(nil, types.ErrNotFound)
	f.messages.EXPECT().CountSince(ch, int64(0), peer).Return(1, nil)

	if _, err := f.engine.Post(author, ch, &MsgClientPub{Content: "hi"}); err != nil {
		t.Fatal("Post failed:", err)
	}

	if got := len(f.rec.byName(evtMessageNotification)); got != 0 {
		t.Errorf("DM must not produce a room notification, got %d", got)
	}
	notes := f.rec.byName(evtNewDMMessage)
	if len(notes) != 1 {
		t.Fatalf("expected 1 %s event, got %d", evtNewDMMessage, len(notes))
	}
	if notes[0].topic != topicUser(peer) {
		t.Errorf("notification delivered to %q, expected the peer's feed", notes[0].topic)
	}
}

func TestPostEmptyRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	if _, err := f.engine.Post(author, ch, &MsgClientPub{Content: "   \n\t "}); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestPostTooLongRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	long := strings.Repeat("x", maxMessageLength+1)
	if _, err := f.engine.Post(author, ch, &MsgClientPub{Content: long}); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestPostBadTypeRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	if _, err := f.engine.Post(author, ch, &MsgClientPub{Content: "x", Type: "carrier-pigeon"}); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestPostDropsForeignFileRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	prev := globals.fileServeBase
	globals.fileServeBase = "/v0/file/s/"
	defer func() { globals.fileServeBase = prev }()

	// The reference is outside the serving area and the message carries no
	// text, so nothing is left to post.
	pub := &MsgClientPub{FileURL: "https://elsewhere.example/file.bin"}
	if _, err := f.engine.Post(author, ch, pub); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestPostReplyToMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)
	f.expectMember(author, types.RoomKindServer)

	f.messages.EXPECT().Get(ch, int64(99)).Return(nil, types.ErrNotFound)

	if _, err := f.engine.Post(author, ch, &MsgClientPub{Content: "x", ReplyTo: 99}); err != types.ErrNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEditAuthorOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor, author, ch := types.Uid(1), types.Uid(2), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.messages.EXPECT().Get(ch, int64(7)).Return(
		&types.Message{SeqId: 7, Channel: ch, From: author, Content: "orig"}, nil)

	if err := f.engine.Edit(actor, ch, 7, "changed"); err != types.ErrPermissionDenied {
		t.Errorf("expected permission denied, got %v", err)
	}
}

func TestEditPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author, ch := types.Uid(1), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.messages.EXPECT().Get(ch, int64(7)).Return(
		&types.Message{SeqId: 7, Channel: ch, From: author, Content: "orig"}, nil)
	f.messages.EXPECT().Update(ch, int64(7), "changed", gomock.Any()).Return(nil)
	f.reacts.EXPECT().ForMessages([]int64{7}).Return([]types.Reaction{
		{Message: 7, User: types.Uid(2), Emoji: "👍", Kind: "emoji"},
	}, nil)

	if err := f.engine.Edit(author, ch, 7, "changed"); err != nil {
		t.Fatal("Edit failed:", err)
	}

	events := f.rec.byName(evtMessageEdited)
	if len(events) != 1 {
		t.Fatalf("expected 1 %s event, got %d", evtMessageEdited, len(events))
	}
	payload := events[0].msg.Evt.Payload.(*EvtMessageEdited)
	if payload.Seq != 7 || payload.Content != "changed" {
		t.Errorf("unexpected payload: %+v", payload)
	}
	// Edits carry the message's current reactions so clients redraw in one pass.
	if len(payload.Reactions) != 1 || payload.Reactions[0].Emoji != "👍" {
		t.Errorf("unexpected reactions: %+v", payload.Reactions)
	}
}

func TestDeleteByModerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	moderator, author, room, ch := types.Uid(1), types.Uid(2), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.messages.EXPECT().Get(ch, int64(7)).Return(
		&types.Message{SeqId: 7, Channel: ch, From: author}, nil)
	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil)
	f.members.EXPECT().Get(room, moderator).Return(membershipRec(moderator, room, types.RoleAdmin), nil)
	f.messages.EXPECT().Delete(ch, int64(7)).Return(nil)

	if err := f.engine.Delete(moderator, ch, 7); err != nil {
		t.Fatal("Delete failed:", err)
	}

	if got := len(f.rec.byName(evtMessageDeleted)); got != 1 {
		t.Errorf("expected 1 %s event, got %d", evtMessageDeleted, got)
	}
}

func TestDeleteByStrangerDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor, author, room, ch := types.Uid(1), types.Uid(2), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.messages.EXPECT().Get(ch, int64(7)).Return(
		&types.Message{SeqId: 7, Channel: ch, From: author}, nil)
	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil)
	f.members.EXPECT().Get(room, actor).Return(membershipRec(actor, room, types.RoleMember), nil)
	f.users.EXPECT().Get(actor).Return(&types.User{Username: "carol"}, nil)

	if err := f.engine.Delete(actor, ch, 7); err != types.ErrPermissionDenied {
		t.Errorf("expected permission denied, got %v", err)
	}
}

func TestForwardAttribution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor, author, room, src, dst := types.Uid(1), types.Uid(3), types.Uid(10), types.Uid(100), types.Uid(200)
	f := newMessagesFixture(ctrl)

	// Both channels live in the same room; the actor is a member.
	f.channels.EXPECT().Get(src).Return(testChannelRec(src, room), nil).AnyTimes()
	f.channels.EXPECT().Get(dst).Return(testChannelRec(dst, room), nil).AnyTimes()
	f.rooms.EXPECT().Get(room).Return(testRoomRec(room, types.Uid(2), types.RoomKindServer, true), nil).AnyTimes()
	f.members.EXPECT().Get(room, actor).Return(membershipRec(actor, room, types.RoleMember), nil).AnyTimes()

	f.messages.EXPECT().Get(src, int64(7)).Return(
		&types.Message{SeqId: 7, Channel: src, From: author, Content: "the original", Type: types.MessageText, ReplyTo: 3}, nil)
	bob := types.User{Username: "bob", Public: "Bob"}
	bob.SetUid(author)
	f.users.EXPECT().Get(author).Return(&bob, nil)

	f.messages.EXPECT().Save(gomock.Any()).DoAndReturn(
		func(msg *types.Message) (*types.Message, error) {
			if msg.Channel != dst || msg.From != actor {
				t.Errorf("unexpected forward record: %+v", msg)
			}
			if msg.Content != "Forwarded from bob:\nthe original" {
				t.Errorf("unexpected forwarded content: %q", msg.Content)
			}
			if msg.ReplyTo != 0 {
				t.Error("a forward must not carry the reply reference")
			}
			msg.SeqId = 20
			msg.CreatedAt = types.TimeNow()
			return msg, nil
		})
	f.users.EXPECT().GetAll(actor).Return(nil, nil)
	f.members.EXPECT().ForRoom(room).Return([]types.Membership{
		*membershipRec(actor, room, types.RoleMember),
	}, nil)

	seq, err := f.engine.Forward(actor, src, 7, dst)
	if err != nil {
		t.Fatal("Forward failed:", err)
	}
	if seq != 20 {
		t.Errorf("expected seq 20, got %d", seq)
	}
}

func TestToggleReaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil)
	f.members.EXPECT().Get(room, user).Return(membershipRec(user, room, types.RoleMember), nil)
	f.messages.EXPECT().Get(ch, int64(7)).Return(&types.Message{SeqId: 7, Channel: ch}, nil)
	f.reacts.EXPECT().Toggle(int64(7), user, "👍", "emoji").Return("added", nil)
	f.reacts.EXPECT().ForMessages([]int64{7}).Return([]types.Reaction{
		{Message: 7, User: user, Emoji: "👍", Kind: "emoji"},
	}, nil)

	action, err := f.engine.ToggleReaction(user, ch, 7, "👍", "")
	if err != nil {
		t.Fatal("ToggleReaction failed:", err)
	}
	if action != "added" {
		t.Errorf("expected 'added', got %q", action)
	}

	events := f.rec.byName(evtReactionsUpdated)
	if len(events) != 1 {
		t.Fatalf("expected 1 %s event, got %d", evtReactionsUpdated, len(events))
	}
	payload := events[0].msg.Evt.Payload.(*EvtReactionsUpdated)
	if len(payload.Reactions) != 1 || payload.Reactions[0].Emoji != "👍" {
		t.Errorf("unexpected payload: %+v", payload)
	}
	// The event names the toggle itself, not just the aggregate.
	if payload.Action != "added" || payload.Emoji != "👍" || payload.User != user.UserId() {
		t.Errorf("unexpected toggle attribution: %+v", payload)
	}
}

func TestToggleReactionBadKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil)
	f.members.EXPECT().Get(room, user).Return(membershipRec(user, room, types.RoleMember), nil)

	if _, err := f.engine.ToggleReaction(user, ch, 7, "👍", "interpretive-dance"); err != types.ErrMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
}

func TestHistoryResolvesReplies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)
	f := newMessagesFixture(ctrl)

	f.channels.EXPECT().Get(ch).Return(testChannelRec(ch, room), nil)
	f.members.EXPECT().Get(room, user).Return(membershipRec(user, room, types.RoleMember), nil)

	now := types.TimeNow()
	f.messages.EXPECT().ForChannel(ch, int64(0), maxHistoryLimit).Return([]types.Message{
		{SeqId: 1, Channel: ch, From: user, Content: "first", Type: types.MessageText, CreatedAt: now},
		{SeqId: 2, Channel: ch, From: user, Content: "reply to gone", Type: types.MessageText, CreatedAt: now, ReplyTo: 99},
	}, nil)
	f.reacts.EXPECT().ForMessages([]int64{1, 2}).Return(nil, nil)
	alice := types.User{Username: "alice", Public: "Alice"}
	alice.SetUid(user)
	f.users.EXPECT().GetAll(user).Return([]types.User{alice}, nil)
	// The reply target has been deleted since.
	f.messages.EXPECT().Get(ch, int64(99)).Return(nil, types.ErrNotFound)

	hist, err := f.engine.History(user, ch, 0, 0)
	if err != nil {
		t.Fatal("History failed:", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(hist))
	}
	if hist[0].FromName != "Alice" {
		t.Errorf("expected resolved author name, got %q", hist[0].FromName)
	}
	if hist[1].ReplyTo == nil || !hist[1].ReplyTo.Deleted {
		t.Errorf("expected a deleted reply snapshot, got %+v", hist[1].ReplyTo)
	}
}

func TestAggregateReactions(t *testing.T) {
	out := aggregateReactions([]types.Reaction{
		{Message: 1, User: types.Uid(1), Emoji: "👍"},
		{Message: 1, User: types.Uid(2), Emoji: "🎉"},
		{Message: 1, User: types.Uid(3), Emoji: "👍"},
		{Message: 2, User: types.Uid(1), Emoji: "🎉"},
	})

	if len(out) != 2 {
		t.Fatalf("expected reactions on 2 messages, got %d", len(out))
	}
	first := out[1]
	if len(first) != 2 {
		t.Fatalf("expected 2 emoji groups, got %d", len(first))
	}
	// Emoji groups keep first-use order, user lists keep insertion order.
	if first[0].Emoji != "👍" || first[1].Emoji != "🎉" {
		t.Errorf("unexpected group order: %+v", first)
	}
	if len(first[0].Users) != 2 ||
		first[0].Users[0] != types.Uid(1).UserId() ||
		first[0].Users[1] != types.Uid(3).UserId() {
		t.Errorf("unexpected user order: %+v", first[0].Users)
	}
	if len(out[2]) != 1 || len(out[2][0].Users) != 1 {
		t.Errorf("unexpected aggregation for message 2: %+v", out[2])
	}
}

func TestAggregateReactionsEmpty(t *testing.T) {
	if out := aggregateReactions(nil); len(out) != 0 {
		t.Errorf("expected empty map, got %+v", out)
	}
}
