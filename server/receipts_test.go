package main

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/mock_store"
	"github.com/nestwire/nestwire/server/store/types"
)

func TestMarkReadAdvancesMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)

	channels := mock_store.NewMockChannelsPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)
	messages := mock_store.NewMockMessagesPersister(ctrl)
	markers := mock_store.NewMockMarkersPersister(ctrl)

	channel := &types.Channel{Room: room}
	channel.SetUid(ch)
	channels.EXPECT().Get(ch).Return(channel, nil)
	members.EXPECT().Get(room, user).Return(&types.Membership{User: user, Room: room, Role: types.RoleMember}, nil)
	messages.EXPECT().LastSeq(ch).Return(int64(42), nil)
	markers.EXPECT().Get(user, ch).Return(&types.ReadMarker{User: user, Channel: ch, LastReadSeq: 7}, nil)
	markers.EXPECT().Upsert(user, ch, int64(42)).Return(nil)

	rec := &deliveryRecorder{}
	r := newReceipts(&store.Store{
		Channels: channels,
		Members:  members,
		Messages: messages,
		Markers:  markers,
	}, rec)

	seq, err := r.MarkRead(user, ch)
	if err != nil {
		t.Fatal("MarkRead failed:", err)
	}
	if seq != 42 {
		t.Errorf("expected marker at 42, got %d", seq)
	}

	events := rec.byName(evtReadStatusUpdated)
	if len(events) != 1 {
		t.Fatalf("expected 1 %s event, got %d", evtReadStatusUpdated, len(events))
	}
	if events[0].topic != topicChannel(ch) {
		t.Errorf("event delivered to %q, expected %q", events[0].topic, topicChannel(ch))
	}
	payload := events[0].msg.Evt.Payload.(*EvtReadStatus)
	if payload.Seq != 42 || payload.User != user.UserId() {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestMarkReadNoRegression(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)

	channels := mock_store.NewMockChannelsPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)
	messages := mock_store.NewMockMessagesPersister(ctrl)
	markers := mock_store.NewMockMarkersPersister(ctrl)

	channel := &types.Channel{Room: room}
	channel.SetUid(ch)
	channels.EXPECT().Get(ch).Return(channel, nil)
	members.EXPECT().Get(room, user).Return(&types.Membership{User: user, Room: room, Role: types.RoleMember}, nil)
	messages.EXPECT().LastSeq(ch).Return(int64(42), nil)
	// Marker is already past the last message. No Upsert expected.
	markers.EXPECT().Get(user, ch).Return(&types.ReadMarker{User: user, Channel: ch, LastReadSeq: 50}, nil)

	rec := &deliveryRecorder{}
	r := newReceipts(&store.Store{
		Channels: channels,
		Members:  members,
		Messages: messages,
		Markers:  markers,
	}, rec)

	seq, err := r.MarkRead(user, ch)
	if err != nil {
		t.Fatal("MarkRead failed:", err)
	}
	if seq != 50 {
		t.Errorf("expected marker to stay at 50, got %d", seq)
	}
	if rec.count() != 0 {
		t.Errorf("expected no events, got %d", rec.count())
	}
}

func TestMarkReadEmptyChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)

	channels := mock_store.NewMockChannelsPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)
	messages := mock_store.NewMockMessagesPersister(ctrl)

	channel := &types.Channel{Room: room}
	channel.SetUid(ch)
	channels.EXPECT().Get(ch).Return(channel, nil)
	members.EXPECT().Get(room, user).Return(&types.Membership{User: user, Room: room, Role: types.RoleMember}, nil)
	// Nothing has ever been posted. No marker is written and nothing announced.
	messages.EXPECT().LastSeq(ch).Return(int64(0), nil)

	rec := &deliveryRecorder{}
	r := newReceipts(&store.Store{
		Channels: channels,
		Members:  members,
		Messages: messages,
	}, rec)

	seq, err := r.MarkRead(user, ch)
	if err != nil {
		t.Fatal("MarkRead failed:", err)
	}
	if seq != 0 {
		t.Errorf("expected marker at 0, got %d", seq)
	}
	if rec.count() != 0 {
		t.Errorf("expected no events, got %d", rec.count())
	}
}

func TestMarkReadFirstTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)

	channels := mock_store.NewMockChannelsPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)
	messages := mock_store.NewMockMessagesPersister(ctrl)
	markers := mock_store.NewMockMarkersPersister(ctrl)

	channel := &types.Channel{Room: room}
	channel.SetUid(ch)
	channels.EXPECT().Get(ch).Return(channel, nil)
	members.EXPECT().Get(room, user).Return(&types.Membership{User: user, Room: room, Role: types.RoleMember}, nil)
	messages.EXPECT().LastSeq(ch).Return(int64(5), nil)
	// No marker yet: the first MarkRead creates one.
	markers.EXPECT().Get(user, ch).Return(nil, types.ErrNotFound)
	markers.EXPECT().Upsert(user, ch, int64(5)).Return(nil)

	rec := &deliveryRecorder{}
	r := newReceipts(&store.Store{
		Channels: channels,
		Members:  members,
		Messages: messages,
		Markers:  markers,
	}, rec)

	seq, err := r.MarkRead(user, ch)
	if err != nil {
		t.Fatal("MarkRead failed:", err)
	}
	if seq != 5 {
		t.Errorf("expected marker at 5, got %d", seq)
	}
}

func TestMarkReadNonMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, room, ch := types.Uid(1), types.Uid(10), types.Uid(100)

	channels := mock_store.NewMockChannelsPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)

	channel := &types.Channel{Room: room}
	channel.SetUid(ch)
	channels.EXPECT().Get(ch).Return(channel, nil)
	members.EXPECT().Get(room, user).Return(nil, types.ErrNotFound)

	rec := &deliveryRecorder{}
	r := newReceipts(&store.Store{Channels: channels, Members: members}, rec)

	if _, err := r.MarkRead(user, ch); err != types.ErrPermissionDenied {
		t.Errorf("expected permission denied, got %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no events, got %d", rec.count())
	}
}

func TestUnreadCountSkipsOwnMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, ch := types.Uid(1), types.Uid(100)

	messages := mock_store.NewMockMessagesPersister(ctrl)
	markers := mock_store.NewMockMarkersPersister(ctrl)

	markers.EXPECT().Get(user, ch).Return(&types.ReadMarker{User: user, Channel: ch, LastReadSeq: 7}, nil)
	// The user's own messages never count as unread: the marker position and
	// the author to skip must both be passed through.
	messages.EXPECT().CountSince(ch, int64(7), user).Return(3, nil)

	r := newReceipts(&store.Store{Messages: messages, Markers: markers}, &deliveryRecorder{})

	n, err := r.UnreadCount(user, ch)
	if err != nil {
		t.Fatal("UnreadCount failed:", err)
	}
	if n != 3 {
		t.Errorf("expected 3 unread, got %d", n)
	}
}

func TestUnreadCountNoMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user, ch := types.Uid(1), types.Uid(100)

	messages := mock_store.NewMockMessagesPersister(ctrl)
	markers := mock_store.NewMockMarkersPersister(ctrl)

	markers.EXPECT().Get(user, ch).Return(nil, types.ErrNotFound)
	messages.EXPECT().CountSince(ch, int64(0), user).Return(12, nil)

	r := newReceipts(&store.Store{Messages: messages, Markers: markers}, &deliveryRecorder{})

	n, err := r.UnreadCount(user, ch)
	if err != nil {
		t.Fatal("UnreadCount failed:", err)
	}
	if n != 12 {
		t.Errorf("expected 12 unread, got %d", n)
	}
}
