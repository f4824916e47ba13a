/******************************************************************************
 *
 *  Description :
 *
 *    Read receipt engine: per-user per-channel read markers and unread
 *    counts.
 *
 *****************************************************************************/

package main

import (
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

// Receipts manages read markers and unread counts.
type Receipts struct {
	store   *store.Store
	deliver Deliverer
}

func newReceipts(s *store.Store, deliver Deliverer) *Receipts {
	return &Receipts{store: s, deliver: deliver}
}

// memberOf verifies that the user is a member of the channel's room.
func (r *Receipts) memberOf(user, ch types.Uid) error {
	channel, err := r.store.Channels.Get(ch)
	if err != nil {
		return err
	}
	if _, err = r.store.Members.Get(channel.Room, user); err == types.ErrNotFound {
		return types.ErrPermissionDenied
	} else if err != nil {
		return err
	}
	return nil
}

// MarkRead moves the user's read marker to the latest message in the
// channel and announces the new position. Returns the marker position.
func (r *Receipts) MarkRead(user, ch types.Uid) (int64, error) {
	if err := r.memberOf(user, ch); err != nil {
		return 0, err
	}

	seq, err := r.store.Messages.LastSeq(ch)
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		// Empty channel: no marker to place, nothing to announce.
		return 0, nil
	}

	if marker, err := r.store.Markers.Get(user, ch); err != nil && err != types.ErrNotFound {
		return 0, err
	} else if marker != nil && marker.LastReadSeq >= seq {
		// Already up to date, nothing to announce.
		return marker.LastReadSeq, nil
	}

	if err = r.store.Markers.Upsert(user, ch, seq); err != nil {
		return 0, err
	}

	topic := topicChannel(ch)
	r.deliver.Publish(topic, EvtMsg(topic, evtReadStatusUpdated, types.TimeNow(),
		&EvtReadStatus{Channel: topic, User: user.UserId(), Seq: seq}))
	return seq, nil
}

// UnreadCount returns the number of messages in the channel past the user's
// read marker. The user's own messages never count as unread.
func (r *Receipts) UnreadCount(user, ch types.Uid) (int, error) {
	var since int64
	if marker, err := r.store.Markers.Get(user, ch); err != nil && err != types.ErrNotFound {
		return 0, err
	} else if marker != nil {
		since = marker.LastReadSeq
	}

	return r.store.Messages.CountSince(ch, since, user)
}
