/******************************************************************************
 *
 *  Description :
 *
 *    Definition of the client-to-server and server-to-client message structures
 *    and the helper functions for building {ctrl} responses.
 *
 *****************************************************************************/

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nestwire/nestwire/server/store/types"
)

// MsgClientHi is a client handshake message {hi}.
type MsgClientHi struct {
	// Message Id.
	Id string `json:"id,omitempty"`
	// Version as "0.13.1".
	Version string `json:"ver,omitempty"`
	// User agent.
	UserAgent string `json:"ua,omitempty"`
	// Human language of the client device.
	Lang string `json:"lang,omitempty"`
}

// MsgClientAcc is an {acc} message for creating an account.
type MsgClientAcc struct {
	Id       string `json:"id,omitempty"`
	Username string `json:"uname"`
	Password string `json:"password"`
	// Displayed name, defaults to Username.
	Public string `json:"public,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// MsgClientLogin is a login {login} message.
type MsgClientLogin struct {
	Id string `json:"id,omitempty"`
	// Authentication scheme: "basic" or "token".
	Scheme string `json:"scheme,omitempty"`
	// Username, for the basic scheme.
	Username string `json:"uname,omitempty"`
	// Password for basic, or the signed token for the token scheme.
	Secret []byte `json:"secret"`
}

// MsgClientSub is a {sub} message: attach the session to a topic.
type MsgClientSub struct {
	Id    string `json:"id,omitempty"`
	Topic string `json:"topic"`
}

// MsgClientUnsub is an {unsub} message: detach the session from a topic.
type MsgClientUnsub struct {
	Id    string `json:"id,omitempty"`
	Topic string `json:"topic"`
}

// MsgClientPub is a {pub} message: post a new message to a channel.
type MsgClientPub struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel"`
	Content string `json:"content"`
	// Message type, defaults to "text".
	Type string `json:"type,omitempty"`
	// Optional attachment.
	FileURL  string `json:"fileurl,omitempty"`
	FileName string `json:"filename,omitempty"`
	FileSize int64  `json:"filesize,omitempty"`
	// Seq id of the message being replied to.
	ReplyTo int64 `json:"replyto,omitempty"`
}

// MsgClientEdit is an {edit} message: replace a message's content.
type MsgClientEdit struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel"`
	Seq     int64  `json:"seq"`
	Content string `json:"content"`
}

// MsgClientDel is a {del} message: delete a single message.
type MsgClientDel struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel"`
	Seq     int64  `json:"seq"`
}

// MsgClientFwd is a {fwd} message: forward a message to another channel.
type MsgClientFwd struct {
	Id string `json:"id,omitempty"`
	// Source channel and message.
	Channel string `json:"channel"`
	Seq     int64  `json:"seq"`
	// Destination channel.
	To string `json:"to"`
}

// MsgClientReact is a {react} message: toggle a reaction on a message.
type MsgClientReact struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel"`
	Seq     int64  `json:"seq"`
	Emoji   string `json:"emoji"`
	// "emoji" (default) or "sticker".
	Kind string `json:"kind,omitempty"`
}

// MsgClientRead is a {read} message: move the read marker to the latest
// message in the channel.
type MsgClientRead struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel"`
}

// MsgClientRoom is a {room} message: room and channel lifecycle operations.
type MsgClientRoom struct {
	Id string `json:"id,omitempty"`
	// One of: create, delete, rename, invite, join, joininvite, leave, dm,
	// dmdel, chanadd, chanedit, chandel.
	What string `json:"what"`
	// Room id for operations on an existing room.
	Room string `json:"room,omitempty"`
	// Channel id for channel operations.
	Channel string `json:"channel,omitempty"`
	// New room/channel name.
	Name string `json:"name,omitempty"`
	// Channel description and icon for chanadd/chanedit.
	Description string `json:"description,omitempty"`
	IconEmoji   string `json:"icon,omitempty"`
	// Room kind for create: "server" or "broadcast".
	Kind string `json:"kind,omitempty"`
	// Public visibility for create.
	Public bool `json:"public,omitempty"`
	// Invite token for joininvite.
	Token string `json:"token,omitempty"`
	// Peer user id for dm.
	User string `json:"user,omitempty"`
}

// MsgClientMod is a {mod} message: moderation operations.
type MsgClientMod struct {
	Id string `json:"id,omitempty"`
	// One of: promote, demote, kick, ban, unban, banglobal, unbanglobal,
	// purge.
	What string `json:"what"`
	Room string `json:"room,omitempty"`
	// Target user.
	User   string `json:"user"`
	Reason string `json:"reason,omitempty"`
	// Also delete the target's messages.
	Purge bool `json:"purge,omitempty"`
}

// MsgClientPres is a {pres} message: presence preference changes.
type MsgClientPres struct {
	Id string `json:"id,omitempty"`
	// One of: online, away, hide, unhide.
	What string `json:"what"`
}

// MsgClientGet is a {get} query message.
type MsgClientGet struct {
	Id string `json:"id,omitempty"`
	// One of: dashboard, explore, messages, members, tracks.
	What    string `json:"what"`
	Room    string `json:"room,omitempty"`
	Channel string `json:"channel,omitempty"`
	// Search term for explore.
	Query string `json:"query,omitempty"`
	// Paging for messages.
	Since int64 `json:"since,omitempty"`
	Limit int   `json:"limit,omitempty"`
}

// MsgClientTrack is a {track} message: manage the user's music library.
type MsgClientTrack struct {
	Id string `json:"id,omitempty"`
	// One of: add, del.
	What string `json:"what"`
	// Track id for del.
	Track string `json:"track,omitempty"`
	// Track attributes for add.
	Title   string `json:"title,omitempty"`
	Artist  string `json:"artist,omitempty"`
	FileURL string `json:"fileurl,omitempty"`
	Cover   string `json:"cover,omitempty"`
}

// MsgClientNote is a {note} message: ephemeral typing notifications,
// not acknowledged by the server.
type MsgClientNote struct {
	Channel string `json:"channel"`
	// Currently just "kp" (key press).
	What string `json:"what"`
}

// ClientComMessage is a wrapper for client messages.
type ClientComMessage struct {
	Hi    *MsgClientHi    `json:"hi"`
	Acc   *MsgClientAcc   `json:"acc"`
	Login *MsgClientLogin `json:"login"`
	Sub   *MsgClientSub   `json:"sub"`
	Unsub *MsgClientUnsub `json:"unsub"`
	Pub   *MsgClientPub   `json:"pub"`
	Edit  *MsgClientEdit  `json:"edit"`
	Del   *MsgClientDel   `json:"del"`
	Fwd   *MsgClientFwd   `json:"fwd"`
	React *MsgClientReact `json:"react"`
	Read  *MsgClientRead  `json:"read"`
	Room  *MsgClientRoom  `json:"room"`
	Mod   *MsgClientMod   `json:"mod"`
	Pres  *MsgClientPres  `json:"pres"`
	Get   *MsgClientGet   `json:"get"`
	Track *MsgClientTrack `json:"track"`
	Note  *MsgClientNote  `json:"note"`

	// Internal fields, routed only within the server.

	// Message id, if provided by the client.
	id string
	// Topic the message is addressed to, if any.
	topic string
	// Timestamp when the message was received by the server.
	timestamp time.Time
}

// MsgServerCtrl is a server control message {ctrl}.
type MsgServerCtrl struct {
	Id     string `json:"id,omitempty"`
	Topic  string `json:"topic,omitempty"`
	Params any    `json:"params,omitempty"`

	Code      int       `json:"code"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// MsgServerEvent is a server event message {evt}: a named notification fanned
// out to topic subscribers.
type MsgServerEvent struct {
	// Topic the event is delivered on.
	Topic string `json:"topic"`
	// Stable event name, e.g. "receive_message".
	Name      string    `json:"name"`
	Timestamp time.Time `json:"ts"`
	// Event payload, one of the Evt* structures.
	Payload any `json:"payload,omitempty"`
}

// ServerComMessage is a wrapper for server-side messages.
type ServerComMessage struct {
	Ctrl *MsgServerCtrl  `json:"ctrl,omitempty"`
	Evt  *MsgServerEvent `json:"evt,omitempty"`

	// Routable name of the topic the message is addressed to. Not serialized.
	rcptTo string
	// Session which originated the request, if any. Not serialized.
	skipSid string
}

// Stable event names delivered in MsgServerEvent.Name.
const (
	evtReceiveMessage      = "receive_message"
	evtMessageEdited       = "message_edited"
	evtMessageDeleted      = "message_deleted"
	evtReactionsUpdated    = "reactions_updated"
	evtBulkMessagesDeleted = "bulk_messages_deleted"
	evtReadStatusUpdated   = "read_status_updated"
	evtPresenceUpdated     = "presence_updated"
	evtMessageNotification = "message_notification"
	evtNewDMMessage        = "new_dm_message"
	evtNewDMCreated        = "new_dm_created"
	evtMemberRemoved       = "member_removed"
	evtServerRemoved       = "server_removed"
	evtForceRedirect       = "force_redirect"
	evtTyping              = "typing"
)

// EvtReaction is one emoji with the users who set it, in insertion order.
type EvtReaction struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
}

// EvtReplySnapshot is the live snapshot of a replied-to message.
type EvtReplySnapshot struct {
	Seq     int64  `json:"seq"`
	From    string `json:"from"`
	Content string `json:"content"`
	Type    string `json:"type"`
	// True when the reply target no longer exists.
	Deleted bool `json:"deleted,omitempty"`
}

// EvtMessage is the wire form of a message, payload of "receive_message".
type EvtMessage struct {
	Channel   string            `json:"channel"`
	Seq       int64             `json:"seq"`
	From      string            `json:"from"`
	FromName  string            `json:"fromname,omitempty"`
	Content   string            `json:"content"`
	Type      string            `json:"type"`
	FileURL   string            `json:"fileurl,omitempty"`
	FileName  string            `json:"filename,omitempty"`
	FileSize  int64             `json:"filesize,omitempty"`
	CreatedAt time.Time         `json:"ts"`
	EditedAt  *time.Time        `json:"edited,omitempty"`
	ReplyTo   *EvtReplySnapshot `json:"replyto,omitempty"`
	Reactions []EvtReaction     `json:"reactions,omitempty"`
}

// EvtMessageEdited is the payload of "message_edited". Reactions carry the
// message's current aggregated reactions so clients can redraw in one pass.
type EvtMessageEdited struct {
	Channel   string        `json:"channel"`
	Seq       int64         `json:"seq"`
	Content   string        `json:"content"`
	EditedAt  time.Time     `json:"edited"`
	Reactions []EvtReaction `json:"reactions"`
}

// EvtMessageDeleted is the payload of "message_deleted".
type EvtMessageDeleted struct {
	Channel string `json:"channel"`
	Seq     int64  `json:"seq"`
}

// EvtReactionsUpdated is the payload of "reactions_updated". Besides the
// aggregated state it names the toggle that caused it: which user added or
// removed which emoji.
type EvtReactionsUpdated struct {
	Channel   string        `json:"channel"`
	Seq       int64         `json:"seq"`
	Reactions []EvtReaction `json:"reactions"`
	// "added" or "removed".
	Action string `json:"action"`
	Emoji  string `json:"emoji"`
	User   string `json:"user"`
}

// EvtBulkMessagesDeleted is the payload of "bulk_messages_deleted".
type EvtBulkMessagesDeleted struct {
	Room  string `json:"room"`
	User  string `json:"user"`
	Count int64  `json:"count"`
}

// EvtReadStatus is the payload of "read_status_updated".
type EvtReadStatus struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Seq     int64  `json:"seq"`
}

// EvtPresence is the payload of "presence_updated".
type EvtPresence struct {
	User     string     `json:"user"`
	Status   string     `json:"status"`
	LastSeen *time.Time `json:"lastseen,omitempty"`
}

// EvtNotification is the payload of "message_notification" and
// "new_dm_message", delivered on user topics.
type EvtNotification struct {
	Room    string `json:"room"`
	Channel string `json:"channel"`
	From    string `json:"from"`
	// Short preview of the message content.
	Preview string `json:"preview"`
	// Recipient's unread count in the channel, including this message.
	Unread int `json:"unread"`
}

// EvtNewDM is the payload of "new_dm_created".
type EvtNewDM struct {
	Room    string `json:"room"`
	Channel string `json:"channel"`
	// The other party of the conversation.
	With string `json:"with"`
}

// EvtMemberRemoved is the payload of "member_removed".
type EvtMemberRemoved struct {
	Room string `json:"room"`
	User string `json:"user"`
	// Why the member is gone: "kick", "ban" or "leave".
	Cause string `json:"cause"`
}

// EvtServerRemoved is the payload of "server_removed".
type EvtServerRemoved struct {
	Room string `json:"room"`
}

// EvtForceRedirect is the payload of "force_redirect", sent to sessions of a
// banned or kicked user. Room is set when the removal is scoped to a single
// room; empty means the whole service.
type EvtForceRedirect struct {
	Room   string `json:"room,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// EvtTyping is the payload of "typing".
type EvtTyping struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
}

// NoErr indicates successful completion (200).
func NoErr(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusOK,
		Text:      "ok",
		Topic:     topic,
		Timestamp: ts}}
}

// NoErrParams indicates successful completion with additional parameters (200).
func NoErrParams(id, topic string, ts time.Time, params any) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusOK,
		Text:      "ok",
		Topic:     topic,
		Params:    params,
		Timestamp: ts}}
}

// NoErrCreated indicates an object was created (201).
func NoErrCreated(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusCreated,
		Text:      "created",
		Topic:     topic,
		Timestamp: ts}}
}

// NoErrCreatedParams indicates an object was created (201), with parameters.
func NoErrCreatedParams(id, topic string, ts time.Time, params any) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusCreated,
		Text:      "created",
		Topic:     topic,
		Params:    params,
		Timestamp: ts}}
}

// NoErrAccepted indicates the request was accepted but not processed yet (202).
func NoErrAccepted(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusAccepted,
		Text:      "accepted",
		Topic:     topic,
		Timestamp: ts}}
}

// InfoNoAction indicates the request was processed but resulted in no
// change (304).
func InfoNoAction(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusNotModified,
		Text:      "no action",
		Topic:     topic,
		Timestamp: ts}}
}

// InfoAlreadySubscribed request to subscribe was ignored because the session
// is already subscribed (304).
func InfoAlreadySubscribed(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusNotModified,
		Text:      "already subscribed",
		Topic:     topic,
		Timestamp: ts}}
}

// InfoNotJoined request to leave was ignored because the session was not
// subscribed (304).
func InfoNotJoined(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusNotModified,
		Text:      "not joined",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrMalformed message cannot be parsed or otherwise wrong (400).
func ErrMalformed(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusBadRequest,
		Text:      "malformed",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrAuthRequired authentication is required before the request can be
// processed (401).
func ErrAuthRequired(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusUnauthorized,
		Text:      "authentication required",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrAuthFailed authentication failed (401).
func ErrAuthFailed(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusUnauthorized,
		Text:      "authentication failed",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrPermissionDenied the caller lacks the required role or ownership (403).
func ErrPermissionDenied(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusForbidden,
		Text:      "permission denied",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrPermissionDeniedReason is ErrPermissionDenied with a reason text.
func ErrPermissionDeniedReason(id, topic, reason string, ts time.Time) *ServerComMessage {
	if reason == "" {
		reason = "permission denied"
	}
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusForbidden,
		Text:      reason,
		Topic:     topic,
		Timestamp: ts}}
}

// ErrNotFound the requested object was not found (404).
func ErrNotFound(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusNotFound,
		Text:      "not found",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrDuplicate the object already exists, e.g. the username is taken (409).
func ErrDuplicate(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusConflict,
		Text:      "duplicate",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrCommandOutOfSequence the command cannot be processed in this order (409).
func ErrCommandOutOfSequence(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusConflict,
		Text:      "command out of sequence",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrTooManyRequests the client has exceeded its rate limit (429).
func ErrTooManyRequests(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusTooManyRequests,
		Text:      "too many requests",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrUnknown an internal error occurred (500).
func ErrUnknown(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusInternalServerError,
		Text:      "internal error",
		Topic:     topic,
		Timestamp: ts}}
}

// ErrServiceUnavailable a collaborator failed transiently (503).
func ErrServiceUnavailable(id, topic string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgServerCtrl{
		Id:        id,
		Code:      http.StatusServiceUnavailable,
		Text:      "service unavailable",
		Topic:     topic,
		Timestamp: ts}}
}

// EvtMsg wraps a named event payload for delivery on a topic.
func EvtMsg(topic, name string, ts time.Time, payload any) *ServerComMessage {
	return &ServerComMessage{Evt: &MsgServerEvent{
		Topic:     topic,
		Name:      name,
		Timestamp: ts,
		Payload:   payload}}
}

// decodeStoreError converts an error returned by the persistence layer into
// a {ctrl} response.
func decodeStoreError(err error, id, topic string, ts time.Time) *ServerComMessage {
	if err == nil {
		return NoErr(id, topic, ts)
	}

	storeErr, ok := err.(types.StoreError)
	if !ok {
		return ErrUnknown(id, topic, ts)
	}

	switch storeErr {
	case types.ErrNotFound:
		return ErrNotFound(id, topic, ts)
	case types.ErrPermissionDenied:
		return ErrPermissionDenied(id, topic, ts)
	case types.ErrUnauthorized:
		return ErrAuthFailed(id, topic, ts)
	case types.ErrDuplicate:
		return ErrDuplicate(id, topic, ts)
	case types.ErrMalformed:
		return ErrMalformed(id, topic, ts)
	case types.ErrUnavailable:
		return ErrServiceUnavailable(id, topic, ts)
	default:
		return ErrUnknown(id, topic, ts)
	}
}

func (src *MsgServerCtrl) describe() string {
	return src.Topic + " id=" + src.Id + " code=" + strconv.Itoa(src.Code) + " txt=" + src.Text
}
