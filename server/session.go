/******************************************************************************
 *
 *  Description :
 *
 *    Handling of user sessions/connections. One user may have multiple
 *    sessions. Each session may be attached to multiple topics.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/nestwire/nestwire/server/auth"
	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store/types"
)

const (
	// Size of the buffered channel of outbound messages.
	sendQueueLimit = 128

	// Sustained rate and burst of client requests per session.
	requestRateLimit = 10
	requestRateBurst = 40

	// Accepted password length at account creation.
	minPasswordLength = 6
	maxPasswordLength = 128
)

var minSupportedVersionValue = parseVersion(minSupportedVersion)

// Session represents a single websocket connection. A user may have multiple
// sessions.
type Session struct {
	// Websocket connection.
	ws *websocket.Conn

	// IP address of the client.
	remoteAddr string

	// User agent, a string provided by an authenticated client in {hi} packet.
	userAgent string

	// Protocol version of the client: ((major & 0xff) << 16) | ((minor & 0xff) << 8) | (patch & 0xff).
	ver int

	// Human language of the client.
	lang string

	// ID of the current user or 0.
	uid types.Uid

	// Authentication level - NONE (unset), AUTH, ROOT.
	authLvl auth.Level

	// Time when the session received any packet from client.
	lastAction time.Time

	// Outbound messages, buffered. The content is serialized JSON.
	send chan any

	// Channel for shutting down the session, buffer 1.
	// Content in the same format as for 'send'.
	stop chan any

	// Per-session request rate limiter.
	limiter *rate.Limiter

	// Set of topic subscriptions, indexed by topic name.
	// Don't access directly. Use getters/setters.
	subs map[string]struct{}
	// Mutex for subs access: both the hub goroutine and network goroutines
	// access subs concurrently.
	subsLock sync.RWMutex

	// Session ID.
	sid string
}

func (s *Session) addSub(topic string) {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	s.subs[topic] = struct{}{}
}

func (s *Session) hasSub(topic string) bool {
	s.subsLock.RLock()
	defer s.subsLock.RUnlock()

	_, ok := s.subs[topic]
	return ok
}

func (s *Session) delSub(topic string) {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	delete(s.subs, topic)
}

func (s *Session) getSubs() []string {
	s.subsLock.RLock()
	defer s.subsLock.RUnlock()

	names := make([]string, 0, len(s.subs))
	for name := range s.subs {
		names = append(names, name)
	}
	return names
}

func (s *Session) clearSubs() {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	s.subs = make(map[string]struct{})
}

// queueOut attempts to send a ServerComMessage to the session write loop.
// If the send buffer is full, timeout is 50 usec.
func (s *Session) queueOut(msg *ServerComMessage) bool {
	if s == nil {
		return true
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logs.Err.Println("s.queueOut: marshal failed", s.sid, err)
		return true
	}

	select {
	case s.send <- data:
	case <-time.After(time.Microsecond * 50):
		logs.Warn.Println("s.queueOut: timeout", s.sid)
		return false
	}
	return true
}

// cleanUp is called when the session is terminated.
func (s *Session) cleanUp() {
	globals.sessionStore.Delete(s)
	globals.hub.Unsubscribe("", s)
	if !s.uid.IsZero() {
		globals.presence.Disconnected(s.uid)
	}
}

// dispatchRaw converts bytes received from the wire to a ClientComMessage
// and dispatches it.
func (s *Session) dispatchRaw(raw []byte) {
	var msg ClientComMessage

	toLog := raw
	truncated := ""
	if len(raw) > 512 {
		toLog = raw[:512]
		truncated = "<...>"
	}
	logs.Info.Printf("in: '%s%s' ip='%s' sid='%s' uid='%s'", toLog, truncated, s.remoteAddr, s.sid, s.uid)

	if err := json.Unmarshal(raw, &msg); err != nil {
		logs.Warn.Println("s.dispatch", err, s.sid)
		s.queueOut(ErrMalformed("", "", types.TimeNow()))
		return
	}

	s.dispatch(&msg)
}

func (s *Session) dispatch(msg *ClientComMessage) {
	s.lastAction = types.TimeNow()
	msg.timestamp = s.lastAction

	if !s.limiter.Allow() {
		s.queueOut(ErrTooManyRequests("", "", msg.timestamp))
		return
	}

	// Check if the handshake has been completed.
	checkVers := func(handler func(*ClientComMessage)) func(*ClientComMessage) {
		return func(m *ClientComMessage) {
			if s.ver == 0 {
				s.queueOut(ErrCommandOutOfSequence(m.id, m.topic, m.timestamp))
				return
			}
			handler(m)
		}
	}

	// Check if the user is logged in.
	checkUser := func(handler func(*ClientComMessage)) func(*ClientComMessage) {
		return func(m *ClientComMessage) {
			if s.uid.IsZero() {
				s.queueOut(ErrAuthRequired(m.id, m.topic, m.timestamp))
				return
			}
			handler(m)
		}
	}

	var handler func(*ClientComMessage)

	switch {
	case msg.Hi != nil:
		handler = s.hello
		msg.id = msg.Hi.Id

	case msg.Acc != nil:
		handler = checkVers(s.acc)
		msg.id = msg.Acc.Id

	case msg.Login != nil:
		handler = checkVers(s.login)
		msg.id = msg.Login.Id

	case msg.Sub != nil:
		handler = checkVers(checkUser(s.subscribe))
		msg.id = msg.Sub.Id
		msg.topic = msg.Sub.Topic

	case msg.Unsub != nil:
		handler = checkVers(checkUser(s.unsubscribe))
		msg.id = msg.Unsub.Id
		msg.topic = msg.Unsub.Topic

	case msg.Pub != nil:
		handler = checkVers(checkUser(s.publish))
		msg.id = msg.Pub.Id
		msg.topic = msg.Pub.Channel

	case msg.Edit != nil:
		handler = checkVers(checkUser(s.edit))
		msg.id = msg.Edit.Id
		msg.topic = msg.Edit.Channel

	case msg.Del != nil:
		handler = checkVers(checkUser(s.del))
		msg.id = msg.Del.Id
		msg.topic = msg.Del.Channel

	case msg.Fwd != nil:
		handler = checkVers(checkUser(s.forward))
		msg.id = msg.Fwd.Id
		msg.topic = msg.Fwd.Channel

	case msg.React != nil:
		handler = checkVers(checkUser(s.react))
		msg.id = msg.React.Id
		msg.topic = msg.React.Channel

	case msg.Read != nil:
		handler = checkVers(checkUser(s.read))
		msg.id = msg.Read.Id
		msg.topic = msg.Read.Channel

	case msg.Room != nil:
		handler = checkVers(checkUser(s.room))
		msg.id = msg.Room.Id
		msg.topic = msg.Room.Room

	case msg.Mod != nil:
		handler = checkVers(checkUser(s.mod))
		msg.id = msg.Mod.Id
		msg.topic = msg.Mod.Room

	case msg.Pres != nil:
		handler = checkVers(checkUser(s.pres))
		msg.id = msg.Pres.Id

	case msg.Get != nil:
		handler = checkVers(checkUser(s.get))
		msg.id = msg.Get.Id

	case msg.Track != nil:
		handler = checkVers(checkUser(s.track))
		msg.id = msg.Track.Id

	case msg.Note != nil:
		handler = s.note
		msg.topic = msg.Note.Channel

	default:
		// Unknown message.
		s.queueOut(ErrMalformed("", "", msg.timestamp))
		logs.Warn.Println("s.dispatch: unknown message", s.sid)
		return
	}

	handler(msg)
}

// Client handshake.
func (s *Session) hello(msg *ClientComMessage) {
	if s.ver != 0 {
		// Duplicate {hi}: just report success.
		s.queueOut(InfoNoAction(msg.id, "", msg.timestamp))
		return
	}

	ver := parseVersion(msg.Hi.Version)
	if ver == 0 {
		s.queueOut(ErrMalformed(msg.id, "", msg.timestamp))
		return
	}
	if ver < minSupportedVersionValue {
		s.queueOut(ErrServiceUnavailable(msg.id, "", msg.timestamp))
		logs.Warn.Println("s.hello: unsupported version", msg.Hi.Version, s.sid)
		return
	}

	s.ver = ver
	s.userAgent = msg.Hi.UserAgent
	s.lang = msg.Hi.Lang

	s.queueOut(NoErrParams(msg.id, "", msg.timestamp,
		map[string]any{"ver": currentVersion, "build": buildstamp}))
}

// Account creation.
func (s *Session) acc(msg *ClientComMessage) {
	uname := normalizeUsername(msg.Acc.Username)
	if !validUsername(uname) {
		s.queueOut(ErrMalformed(msg.id, "", msg.timestamp))
		return
	}
	if len(msg.Acc.Password) < minPasswordLength || len(msg.Acc.Password) > maxPasswordLength {
		s.queueOut(ErrMalformed(msg.id, "", msg.timestamp))
		return
	}

	secret, err := auth.HashSecret(msg.Acc.Password)
	if err != nil {
		logs.Err.Println("s.acc: failed to hash secret", err, s.sid)
		s.queueOut(ErrUnknown(msg.id, "", msg.timestamp))
		return
	}

	user := &types.User{
		Username:   uname,
		Public:     msg.Acc.Public,
		Avatar:     msg.Acc.Avatar,
		Searchable: true,
		Listable:   true,
	}
	user, err = globals.store.Users.Create(user, secret)
	if err != nil {
		logs.Warn.Println("s.acc: create failed", err, s.sid)
		s.queueOut(decodeStoreError(err, msg.id, "", msg.timestamp))
		return
	}

	s.queueOut(NoErrCreatedParams(msg.id, "", msg.timestamp,
		map[string]any{"user": user.Uid().UserId()}))
}

// Authenticate the session.
func (s *Session) login(msg *ClientComMessage) {
	if !s.uid.IsZero() {
		s.queueOut(InfoNoAction(msg.id, "", msg.timestamp))
		return
	}

	var uid types.Uid
	var authLvl auth.Level
	var err error

	switch msg.Login.Scheme {
	case "", "basic":
		uname := normalizeUsername(msg.Login.Username)
		var passhash []byte
		uid, passhash, err = globals.store.Users.GetAuthRecord(uname)
		if err == nil {
			err = auth.CompareSecret(passhash, string(msg.Login.Secret))
		}
		if err != nil {
			logs.Warn.Println("s.login: basic auth failed", s.sid)
			s.queueOut(ErrAuthFailed(msg.id, "", msg.timestamp))
			return
		}
		authLvl = auth.LevelAuth

	case "token":
		uid, authLvl, err = globals.tokenCodec.Authenticate(msg.Login.Secret)
		if err != nil {
			logs.Warn.Println("s.login: invalid token", s.sid)
			s.queueOut(ErrAuthFailed(msg.id, "", msg.timestamp))
			return
		}

	default:
		s.queueOut(ErrMalformed(msg.id, "", msg.timestamp))
		return
	}

	user, err := globals.store.Users.Get(uid)
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, "", msg.timestamp))
		return
	}
	if user.Banned {
		s.queueOut(ErrPermissionDeniedReason(msg.id, "", "account suspended", msg.timestamp))
		return
	}
	if user.Superuser && authLvl < auth.LevelRoot {
		authLvl = auth.LevelRoot
	}

	token, expires, err := globals.tokenCodec.GenSecret(uid, authLvl)
	if err != nil {
		logs.Err.Println("s.login: cannot issue token", err, s.sid)
		s.queueOut(ErrUnknown(msg.id, "", msg.timestamp))
		return
	}

	s.uid = uid
	s.authLvl = authLvl

	if s.remoteAddr != "" {
		// Remember the login address for moderation of offline accounts.
		if err := globals.store.Users.Update(uid, map[string]any{"lastip": s.remoteAddr}); err != nil {
			logs.Warn.Println("s.login: cannot save login address", err, s.sid)
		}
	}

	// Every session receives the user's own notifications.
	globals.hub.Subscribe(topicUser(uid), s)
	globals.presence.Connected(uid)

	s.queueOut(NoErrParams(msg.id, "", msg.timestamp, map[string]any{
		"user":    uid.UserId(),
		"authlvl": authLvl.String(),
		"token":   token,
		"expires": expires}))
}

// Request to attach the session to a topic.
func (s *Session) subscribe(msg *ClientComMessage) {
	if s.hasSub(msg.topic) {
		s.queueOut(InfoAlreadySubscribed(msg.id, msg.topic, msg.timestamp))
		return
	}

	if ch := types.ParseChannelId(msg.topic); !ch.IsZero() {
		if err := globals.roster.CanRead(s.uid, ch); err != nil {
			s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
			return
		}
	} else if user := types.ParseUserId(msg.topic); !user.IsZero() {
		if user != s.uid {
			s.queueOut(ErrPermissionDenied(msg.id, msg.topic, msg.timestamp))
			return
		}
	} else {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	globals.hub.Subscribe(msg.topic, s)
	s.queueOut(NoErr(msg.id, msg.topic, msg.timestamp))
}

// Detach the session from a topic.
func (s *Session) unsubscribe(msg *ClientComMessage) {
	if !s.hasSub(msg.topic) {
		s.queueOut(InfoNotJoined(msg.id, msg.topic, msg.timestamp))
		return
	}

	globals.hub.Unsubscribe(msg.topic, s)
	s.queueOut(NoErr(msg.id, msg.topic, msg.timestamp))
}

// Post a new message to a channel.
func (s *Session) publish(msg *ClientComMessage) {
	ch := types.ParseChannelId(msg.Pub.Channel)
	if ch.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	seq, err := globals.messages.Post(s.uid, ch, msg.Pub)
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErrParams(msg.id, msg.topic, msg.timestamp, map[string]any{"seq": seq}))
}

// Replace the content of an existing message.
func (s *Session) edit(msg *ClientComMessage) {
	ch := types.ParseChannelId(msg.Edit.Channel)
	if ch.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	if err := globals.messages.Edit(s.uid, ch, msg.Edit.Seq, msg.Edit.Content); err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErr(msg.id, msg.topic, msg.timestamp))
}

// Delete a single message.
func (s *Session) del(msg *ClientComMessage) {
	ch := types.ParseChannelId(msg.Del.Channel)
	if ch.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	if err := globals.messages.Delete(s.uid, ch, msg.Del.Seq); err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErr(msg.id, msg.topic, msg.timestamp))
}

// Forward a message to another channel.
func (s *Session) forward(msg *ClientComMessage) {
	src := types.ParseChannelId(msg.Fwd.Channel)
	dst := types.ParseChannelId(msg.Fwd.To)
	if src.IsZero() || dst.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	seq, err := globals.messages.Forward(s.uid, src, msg.Fwd.Seq, dst)
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErrParams(msg.id, msg.topic, msg.timestamp, map[string]any{"seq": seq}))
}

// Toggle a reaction on a message.
func (s *Session) react(msg *ClientComMessage) {
	ch := types.ParseChannelId(msg.React.Channel)
	if ch.IsZero() || msg.React.Emoji == "" {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	action, err := globals.messages.ToggleReaction(s.uid, ch, msg.React.Seq, msg.React.Emoji, msg.React.Kind)
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErrParams(msg.id, msg.topic, msg.timestamp, map[string]any{"action": action}))
}

// Move the read marker to the latest message in the channel.
func (s *Session) read(msg *ClientComMessage) {
	if msg.Read.Channel == "" {
		// Harmless no-op, the client has no active channel.
		s.queueOut(InfoNoAction(msg.id, "", msg.timestamp))
		return
	}

	ch := types.ParseChannelId(msg.Read.Channel)
	if ch.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, msg.timestamp))
		return
	}

	seq, err := globals.receipts.MarkRead(s.uid, ch)
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}

	s.queueOut(NoErrParams(msg.id, msg.topic, msg.timestamp, map[string]any{"seq": seq}))
}

// Room and channel lifecycle operations.
func (s *Session) room(msg *ClientComMessage) {
	req := msg.Room
	ts := msg.timestamp

	switch req.What {
	case "create":
		kind := types.RoomKind(req.Kind)
		if kind == "" {
			kind = types.RoomKindServer
		}
		if kind != types.RoomKindServer && kind != types.RoomKindBroadcast {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		room, ch, err := globals.roster.CreateRoom(s.uid, req.Name, kind, req.Public)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrCreatedParams(msg.id, "", ts, map[string]any{
			"room":    room.Uid().String(),
			"channel": ch.Uid().ChannelId()}))

	case "dm":
		peer := types.ParseUserId(req.User)
		if peer.IsZero() {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		room, ch, created, err := globals.roster.StartDM(s.uid, peer)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		ctor := NoErrParams
		if created {
			ctor = NoErrCreatedParams
		}
		s.queueOut(ctor(msg.id, "", ts, map[string]any{
			"room":    room.Uid().String(),
			"channel": ch.Uid().ChannelId()}))

	case "dmdel":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.DeleteDM(s.uid, room))

	case "delete":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.DeleteRoom(s.uid, room))

	case "rename":
		room := types.ParseUid(req.Room)
		if room.IsZero() || req.Name == "" {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.RenameRoom(s.uid, room, req.Name))

	case "invite":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		token, err := globals.roster.GenerateInvite(s.uid, room)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, msg.topic, ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, msg.topic, ts, map[string]any{"token": token}))

	case "join":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		joined, err := globals.roster.Join(s.uid, room)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, msg.topic, ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, msg.topic, ts, map[string]any{"room": joined.Uid().String()}))

	case "joininvite":
		if req.Token == "" {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		joined, err := globals.roster.JoinByInvite(s.uid, req.Token)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, "", ts, map[string]any{"room": joined.Uid().String()}))

	case "leave":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.Leave(s.uid, room))

	case "chanadd":
		room := types.ParseUid(req.Room)
		if room.IsZero() || req.Name == "" {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		ch, err := globals.roster.AddChannel(s.uid, room, req.Name, req.Description, req.IconEmoji)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, msg.topic, ts))
			return
		}
		s.queueOut(NoErrCreatedParams(msg.id, msg.topic, ts,
			map[string]any{"channel": ch.Uid().ChannelId()}))

	case "chanedit":
		ch := types.ParseChannelId(req.Channel)
		if ch.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.EditChannel(s.uid, ch, req.Name, req.Description, req.IconEmoji))

	case "chandel":
		ch := types.ParseChannelId(req.Channel)
		if ch.IsZero() {
			s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
			return
		}
		s.replyOpResult(msg, globals.roster.DeleteChannel(s.uid, ch))

	default:
		s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
	}
}

// Moderation operations.
func (s *Session) mod(msg *ClientComMessage) {
	req := msg.Mod
	ts := msg.timestamp

	target := types.ParseUserId(req.User)
	if target.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
		return
	}

	// Global moderation does not need a room.
	switch req.What {
	case "banglobal":
		s.replyOpResult(msg, globals.roster.BanGlobal(s.uid, target, req.Reason, req.Purge))
		return
	case "unbanglobal":
		s.replyOpResult(msg, globals.roster.UnbanGlobal(s.uid, target))
		return
	}

	room := types.ParseUid(req.Room)
	if room.IsZero() {
		s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
		return
	}

	switch req.What {
	case "promote":
		s.replyOpResult(msg, globals.roster.Promote(s.uid, room, target))
	case "demote":
		s.replyOpResult(msg, globals.roster.Demote(s.uid, room, target))
	case "kick":
		s.replyOpResult(msg, globals.roster.Kick(s.uid, room, target))
	case "ban":
		s.replyOpResult(msg, globals.roster.Ban(s.uid, room, target, req.Reason, req.Purge))
	case "unban":
		s.replyOpResult(msg, globals.roster.Unban(s.uid, room, target))
	case "purge":
		s.replyOpResult(msg, globals.roster.PurgeMessages(s.uid, room, target))
	default:
		s.queueOut(ErrMalformed(msg.id, msg.topic, ts))
	}
}

// Presence preference changes.
func (s *Session) pres(msg *ClientComMessage) {
	if err := globals.presence.SetStatus(s.uid, msg.Pres.What); err != nil {
		s.queueOut(decodeStoreError(err, msg.id, "", msg.timestamp))
		return
	}
	s.queueOut(NoErr(msg.id, "", msg.timestamp))
}

// Queries.
func (s *Session) get(msg *ClientComMessage) {
	req := msg.Get
	ts := msg.timestamp

	switch req.What {
	case "dashboard":
		dash, err := globals.roster.Dashboard(s.uid)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, "", ts, dash))

	case "explore":
		res, err := globals.roster.Explore(s.uid, req.Query)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, "", ts, res))

	case "messages":
		ch := types.ParseChannelId(req.Channel)
		if ch.IsZero() {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		hist, err := globals.messages.History(s.uid, ch, req.Since, req.Limit)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, req.Channel, ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, req.Channel, ts, map[string]any{"messages": hist}))

	case "members":
		room := types.ParseUid(req.Room)
		if room.IsZero() {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		members, err := globals.roster.Members(s.uid, room)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, req.Room, ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, req.Room, ts, map[string]any{"members": members}))

	case "tracks":
		tracks, err := globals.store.Tracks.ForUser(s.uid)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrParams(msg.id, "", ts, map[string]any{"tracks": tracks}))

	default:
		s.queueOut(ErrMalformed(msg.id, "", ts))
	}
}

// Music library management.
func (s *Session) track(msg *ClientComMessage) {
	req := msg.Track
	ts := msg.timestamp

	switch req.What {
	case "add":
		if req.Title == "" || req.FileURL == "" {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		track := &types.Track{
			User:    s.uid,
			Title:   req.Title,
			Artist:  req.Artist,
			FileURL: req.FileURL,
			Cover:   req.Cover,
		}
		track, err := globals.store.Tracks.Add(track)
		if err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		s.queueOut(NoErrCreatedParams(msg.id, "", ts, map[string]any{"track": track.Uid().String()}))

	case "del":
		id := types.ParseUid(req.Track)
		if id.IsZero() {
			s.queueOut(ErrMalformed(msg.id, "", ts))
			return
		}
		var fileURL string
		if tracks, err := globals.store.Tracks.ForUser(s.uid); err == nil {
			for i := range tracks {
				if tracks[i].Uid() == id {
					fileURL = tracks[i].FileURL
					break
				}
			}
		}
		if err := globals.store.Tracks.Delete(id, s.uid); err != nil {
			s.queueOut(decodeStoreError(err, msg.id, "", ts))
			return
		}
		mediaFileToBeReplaced(fileURL)
		s.queueOut(NoErr(msg.id, "", ts))

	default:
		s.queueOut(ErrMalformed(msg.id, "", ts))
	}
}

// Ephemeral typing notification. Not acknowledged.
func (s *Session) note(msg *ClientComMessage) {
	if s.uid.IsZero() || msg.Note.What != "kp" {
		return
	}
	if !s.hasSub(msg.Note.Channel) {
		return
	}

	evt := EvtMsg(msg.Note.Channel, evtTyping, msg.timestamp,
		&EvtTyping{Channel: msg.Note.Channel, User: s.uid.UserId()})
	evt.skipSid = s.sid
	globals.hub.Publish(msg.Note.Channel, evt)
}

// replyOpResult sends a generic ok/error response for operations with no
// result payload.
func (s *Session) replyOpResult(msg *ClientComMessage, err error) {
	if err != nil {
		s.queueOut(decodeStoreError(err, msg.id, msg.topic, msg.timestamp))
		return
	}
	s.queueOut(NoErr(msg.id, msg.topic, msg.timestamp))
}
