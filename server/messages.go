/******************************************************************************
 *
 *  Description :
 *
 *    Message lifecycle engine: posting, editing, deleting, forwarding,
 *    reactions and history queries, with fan-out of the resulting events.
 *
 *****************************************************************************/

package main

import (
	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/media"
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

// Maximum number of messages returned by a single history query.
const maxHistoryLimit = 100

var validMessageTypes = map[types.MessageType]struct{}{
	types.MessageText:    {},
	types.MessageImage:   {},
	types.MessageFile:    {},
	types.MessageMusic:   {},
	types.MessageSticker: {},
	types.MessageVideo:   {},
}

// Messages manages the message lifecycle within channels.
type Messages struct {
	store    *store.Store
	deliver  Deliverer
	roster   *Roster
	receipts *Receipts
}

func newMessages(s *store.Store, deliver Deliverer, roster *Roster, receipts *Receipts) *Messages {
	return &Messages{store: s, deliver: deliver, roster: roster, receipts: receipts}
}

// Post normalizes and stores a new message, then fans out receive_message
// to the channel and notifications to the room members.
func (me *Messages) Post(from types.Uid, ch types.Uid, pub *MsgClientPub) (int64, error) {
	if err := me.roster.CanPost(from, ch); err != nil {
		return 0, err
	}

	content := normalizeMessage(pub.Content)
	mtype := types.MessageType(pub.Type)
	if mtype == "" {
		mtype = types.MessageText
	}
	if _, ok := validMessageTypes[mtype]; !ok {
		return 0, types.ErrMalformed
	}

	fileURL := pub.FileURL
	if fileURL != "" && media.GetIdFromUrl(fileURL, globals.fileServeBase).IsZero() {
		// A reference outside of the upload area is dropped, not fatal.
		logs.Warn.Println("messages: dropping unsafe file ref", fileURL)
		fileURL = ""
	}

	if content == "" && fileURL == "" {
		return 0, types.ErrMalformed
	}
	if graphemeLen(content) > maxMessageLength {
		return 0, types.ErrMalformed
	}

	if pub.ReplyTo != 0 {
		if _, err := me.store.Messages.Get(ch, pub.ReplyTo); err != nil {
			return 0, err
		}
	}

	msg := &types.Message{
		Channel:  ch,
		From:     from,
		Content:  content,
		Type:     mtype,
		FileURL:  fileURL,
		FileName: pub.FileName,
		FileSize: pub.FileSize,
		ReplyTo:  pub.ReplyTo,
	}
	msg, err := me.store.Messages.Save(msg)
	if err != nil {
		return 0, err
	}

	me.fanOut(msg)
	return msg.SeqId, nil
}

// Edit replaces the content of a message. Only the author may edit.
func (me *Messages) Edit(actor types.Uid, ch types.Uid, seq int64, content string) error {
	msg, err := me.store.Messages.Get(ch, seq)
	if err != nil {
		return err
	}
	if msg.From != actor {
		return types.ErrPermissionDenied
	}

	content = normalizeMessage(content)
	if content == "" || graphemeLen(content) > maxMessageLength {
		return types.ErrMalformed
	}

	now := types.TimeNow()
	if err = me.store.Messages.Update(ch, seq, content, now); err != nil {
		return err
	}

	reactions, err := me.store.Reactions.ForMessages([]int64{seq})
	if err != nil {
		return err
	}

	topic := topicChannel(ch)
	me.deliver.Publish(topic, EvtMsg(topic, evtMessageEdited, now, &EvtMessageEdited{
		Channel:   topic,
		Seq:       seq,
		Content:   content,
		EditedAt:  now,
		Reactions: aggregateReactions(reactions)[seq],
	}))
	return nil
}

// Delete removes a single message. Allowed for the author and for room
// moderators.
func (me *Messages) Delete(actor types.Uid, ch types.Uid, seq int64) error {
	msg, err := me.store.Messages.Get(ch, seq)
	if err != nil {
		return err
	}

	if msg.From != actor {
		channel, err := me.store.Channels.Get(ch)
		if err != nil {
			return err
		}
		if _, err = me.roster.actorRank(actor, channel.Room); err != nil {
			return err
		}
	}

	if err = me.store.Messages.Delete(ch, seq); err != nil {
		return err
	}

	topic := topicChannel(ch)
	me.deliver.Publish(topic, EvtMsg(topic, evtMessageDeleted, types.TimeNow(),
		&EvtMessageDeleted{Channel: topic, Seq: seq}))
	return nil
}

// Forward copies a message into another channel with attribution to the
// original author.
func (me *Messages) Forward(actor types.Uid, src types.Uid, seq int64, dst types.Uid) (int64, error) {
	if err := me.roster.CanRead(actor, src); err != nil {
		return 0, err
	}
	if err := me.roster.CanPost(actor, dst); err != nil {
		return 0, err
	}

	orig, err := me.store.Messages.Get(src, seq)
	if err != nil {
		return 0, err
	}

	author := "unknown"
	if u, err := me.store.Users.Get(orig.From); err == nil {
		author = u.Username
	}

	msg := &types.Message{
		Channel:  dst,
		From:     actor,
		Content:  "Forwarded from " + author + ":\n" + orig.Content,
		Type:     orig.Type,
		FileURL:  orig.FileURL,
		FileName: orig.FileName,
		FileSize: orig.FileSize,
	}
	msg, err = me.store.Messages.Save(msg)
	if err != nil {
		return 0, err
	}

	me.fanOut(msg)
	return msg.SeqId, nil
}

// ToggleReaction adds the caller's reaction to a message or removes it when
// already present. Returns "added" or "removed".
func (me *Messages) ToggleReaction(user types.Uid, ch types.Uid, seq int64, emoji, kind string) (string, error) {
	if err := me.roster.CanRead(user, ch); err != nil {
		return "", err
	}
	if kind == "" {
		kind = "emoji"
	}
	if kind != "emoji" && kind != "sticker" {
		return "", types.ErrMalformed
	}

	if _, err := me.store.Messages.Get(ch, seq); err != nil {
		return "", err
	}

	action, err := me.store.Reactions.Toggle(seq, user, emoji, kind)
	if err != nil {
		return "", err
	}

	reactions, err := me.store.Reactions.ForMessages([]int64{seq})
	if err != nil {
		return "", err
	}

	topic := topicChannel(ch)
	me.deliver.Publish(topic, EvtMsg(topic, evtReactionsUpdated, types.TimeNow(),
		&EvtReactionsUpdated{
			Channel:   topic,
			Seq:       seq,
			Reactions: aggregateReactions(reactions)[seq],
			Action:    action,
			Emoji:     emoji,
			User:      user.UserId(),
		}))
	return action, nil
}

// History returns the channel messages with seq greater than since, oldest
// first, with reactions and reply snapshots resolved.
func (me *Messages) History(user types.Uid, ch types.Uid, since int64, limit int) ([]EvtMessage, error) {
	if err := me.roster.CanRead(user, ch); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	msgs, err := me.store.Messages.ForChannel(ch, since, limit)
	if err != nil {
		return nil, err
	}

	seqs := make([]int64, 0, len(msgs))
	for i := range msgs {
		seqs = append(seqs, msgs[i].SeqId)
	}
	reactions, err := me.store.Reactions.ForMessages(seqs)
	if err != nil {
		return nil, err
	}
	bySeq := aggregateReactions(reactions)

	names := me.authorNames(msgs)

	out := make([]EvtMessage, 0, len(msgs))
	for i := range msgs {
		evt := me.toEvtMessage(&msgs[i], names)
		evt.Reactions = bySeq[msgs[i].SeqId]
		out = append(out, *evt)
	}
	return out, nil
}

// fanOut delivers receive_message to the channel and per-user notifications
// to the room members.
func (me *Messages) fanOut(msg *types.Message) {
	topic := topicChannel(msg.Channel)
	names := me.authorNames([]types.Message{*msg})
	evt := me.toEvtMessage(msg, names)

	me.deliver.Publish(topic, EvtMsg(topic, evtReceiveMessage, msg.CreatedAt, evt))

	channel, room, err := me.roster.channelRoom(msg.Channel)
	if err != nil {
		logs.Err.Println("messages: cannot resolve room for", topic, err)
		return
	}

	members, err := me.store.Members.ForRoom(room.Uid())
	if err != nil {
		logs.Err.Println("messages: cannot load members of", room.Uid().String(), err)
		return
	}

	name := evtMessageNotification
	if room.Kind == types.RoomKindDM {
		name = evtNewDMMessage
	}
	preview := messagePreview(msg.Content)
	base := EvtNotification{
		Room:    room.Uid().String(),
		Channel: channel.Uid().ChannelId(),
		From:    msg.From.UserId(),
		Preview: preview,
	}

	for _, m := range members {
		if m.User == msg.From {
			continue
		}
		payload := base
		unread, err := me.receipts.UnreadCount(m.User, msg.Channel)
		if err != nil {
			logs.Warn.Println("messages: cannot count unread for", m.User.UserId(), err)
		}
		payload.Unread = unread
		me.deliver.Publish(topicUser(m.User), EvtMsg(topicUser(m.User), name, msg.CreatedAt, &payload))
	}
}

// authorNames returns the display names of the message authors.
func (me *Messages) authorNames(msgs []types.Message) map[types.Uid]string {
	seen := map[types.Uid]struct{}{}
	var ids []types.Uid
	for i := range msgs {
		if _, ok := seen[msgs[i].From]; !ok {
			seen[msgs[i].From] = struct{}{}
			ids = append(ids, msgs[i].From)
		}
	}

	names := make(map[types.Uid]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	users, err := me.store.Users.GetAll(ids...)
	if err != nil {
		logs.Warn.Println("messages: cannot resolve author names", err)
		return names
	}
	for i := range users {
		names[users[i].Uid()] = users[i].Public
	}
	return names
}

// toEvtMessage converts a stored message to its wire form, resolving the
// reply snapshot.
func (me *Messages) toEvtMessage(msg *types.Message, names map[types.Uid]string) *EvtMessage {
	evt := &EvtMessage{
		Channel:   topicChannel(msg.Channel),
		Seq:       msg.SeqId,
		From:      msg.From.UserId(),
		FromName:  names[msg.From],
		Content:   msg.Content,
		Type:      string(msg.Type),
		FileURL:   msg.FileURL,
		FileName:  msg.FileName,
		FileSize:  msg.FileSize,
		CreatedAt: msg.CreatedAt,
		EditedAt:  msg.EditedAt,
	}

	if msg.ReplyTo != 0 {
		target, err := me.store.Messages.Get(msg.Channel, msg.ReplyTo)
		if err != nil {
			evt.ReplyTo = &EvtReplySnapshot{Seq: msg.ReplyTo, Deleted: true}
		} else {
			evt.ReplyTo = &EvtReplySnapshot{
				Seq:     target.SeqId,
				From:    target.From.UserId(),
				Content: target.Content,
				Type:    string(target.Type),
			}
		}
	}
	return evt
}

// aggregateReactions groups raw reaction rows by message, then by emoji in
// first-use order, with user lists in insertion order.
func aggregateReactions(reactions []types.Reaction) map[int64][]EvtReaction {
	out := make(map[int64][]EvtReaction)
	for i := range reactions {
		r := &reactions[i]
		list := out[r.Message]
		found := false
		for j := range list {
			if list[j].Emoji == r.Emoji {
				list[j].Users = append(list[j].Users, r.User.UserId())
				found = true
				break
			}
		}
		if !found {
			list = append(list, EvtReaction{Emoji: r.Emoji, Users: []string{r.User.UserId()}})
		}
		out[r.Message] = list
	}
	return out
}
