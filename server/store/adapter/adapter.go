// Package adapter contains the interfaces to be implemented by the database adapter
package adapter

import (
	"time"

	t "github.com/nestwire/nestwire/server/store/types"
)

// Adapter is the interface that must be implemented by a database
// adapter. The current schema supports a single connection by database type.
type Adapter interface {
	// General

	// Open and configure the adapter.
	Open(config string) error
	// Close the adapter.
	Close() error
	// IsOpen checks if the adapter is ready for use.
	IsOpen() bool
	// CreateDb creates the database optionally dropping an existing database first.
	CreateDb(reset bool) error

	// User management

	// UserCreate creates a user record. Returns ErrDuplicate if the username is taken.
	UserCreate(user *t.User) error
	// UserGet returns a user record by id. Returns (nil, nil) if missing.
	UserGet(uid t.Uid) (*t.User, error)
	// UserGetByUsername returns a user record by unique username.
	UserGetByUsername(uname string) (*t.User, error)
	// UserGetAll returns user records for the given ids skipping those not found.
	UserGetAll(ids ...t.Uid) ([]t.User, error)
	// UserUpdate applies the given updates to the user record.
	UserUpdate(uid t.Uid, update map[string]any) error
	// UserDelete hard-deletes the user cascading memberships, tracks,
	// reactions and read markers. Messages keep the author id.
	UserDelete(uid t.Uid) error
	// UserUpdatePresence writes presence status and optionally last-seen time.
	UserUpdatePresence(uid t.Uid, status t.PresenceStatus, lastSeen *time.Time) error
	// UserFind returns users matching the normalized query. If all is true
	// privacy flags are ignored.
	UserFind(query string, all bool) ([]t.User, error)
	// UserIsIPBanned checks if the address is recorded against any globally banned user.
	UserIsIPBanned(addr string) (bool, error)
	// UserBanGlobal marks the user banned, appends the address, converts every
	// membership into a room ban and optionally purges the user's messages,
	// all in one transaction. Returns ids of the affected rooms.
	UserBanGlobal(uid, by t.Uid, reason, addr string, purge bool) ([]t.Uid, error)
	// UserUnbanGlobal clears the global ban fields and deletes all room bans of the user.
	UserUnbanGlobal(uid t.Uid) error

	// Credentials

	// AuthAddRecord stores a login secret for the user.
	AuthAddRecord(uid t.Uid, secret []byte) error
	// AuthGetRecord fetches the stored secret and user id by username.
	AuthGetRecord(uname string) (t.Uid, []byte, error)
	// AuthUpdRecord replaces the stored secret.
	AuthUpdRecord(uid t.Uid, secret []byte) error

	// Room management

	// RoomCreate creates the room, the owner membership and the default
	// channel in a single transaction.
	RoomCreate(room *t.Room, defaultChannel *t.Channel) error
	// RoomCreateDM creates a DM room with both memberships and the single
	// channel in one transaction.
	RoomCreateDM(room *t.Room, channel *t.Channel, first, second t.Uid) error
	// RoomGet returns a room by id. Returns (nil, nil) if missing.
	RoomGet(room t.Uid) (*t.Room, error)
	// RoomGetByInvite returns a room by its invite token.
	RoomGetByInvite(token string) (*t.Room, error)
	// RoomUpdate applies the given updates to the room record.
	RoomUpdate(room t.Uid, update map[string]any) error
	// RoomDelete deletes the room cascading channels, messages, memberships,
	// bans and read markers.
	RoomDelete(room t.Uid) error
	// RoomGetDM finds an existing DM room between the two users, (nil, nil) if none.
	RoomGetDM(first, second t.Uid) (*t.Room, error)
	// RoomsPublic returns public non-DM rooms.
	RoomsPublic(all bool) ([]t.Room, error)

	// Channels

	// ChannelCreate adds a channel to a room.
	ChannelCreate(ch *t.Channel) error
	// ChannelGet returns a channel by id. Returns (nil, nil) if missing.
	ChannelGet(ch t.Uid) (*t.Channel, error)
	// ChannelsForRoom returns channels of a room ordered by creation.
	ChannelsForRoom(room t.Uid) ([]t.Channel, error)
	// ChannelUpdate applies the given updates to the channel record.
	ChannelUpdate(ch t.Uid, update map[string]any) error
	// ChannelDelete deletes the channel cascading messages, reactions and markers.
	ChannelDelete(ch t.Uid) error

	// Membership

	// MemberAdd inserts a membership. Returns ErrDuplicate on an existing pair.
	MemberAdd(sub *t.Membership) error
	// MemberGet reads a single membership, (nil, nil) if missing.
	MemberGet(room, user t.Uid) (*t.Membership, error)
	// MembersForRoom returns all memberships of a room.
	MembersForRoom(room t.Uid) ([]t.Membership, error)
	// MembersForUser returns all memberships of a user.
	MembersForUser(user t.Uid) ([]t.Membership, error)
	// MemberUpdateRole changes the role on an existing membership.
	MemberUpdateRole(room, user t.Uid, role t.Role) error
	// MemberDelete removes a membership (leave or kick).
	MemberDelete(room, user t.Uid) error

	// Room bans

	// MemberBan atomically deletes the membership, inserts the ban record and
	// optionally purges the target's messages in the room. Returns the purge count.
	MemberBan(ban *t.RoomBan, purge bool) (int64, error)
	// BanGet reads a room ban, (nil, nil) if missing.
	BanGet(room, user t.Uid) (*t.RoomBan, error)
	// BansForRoom returns all bans of a room.
	BansForRoom(room t.Uid) ([]t.RoomBan, error)
	// BanDelete removes a room ban.
	BanDelete(room, user t.Uid) error

	// Messages

	// MessageSave stores a message.
	MessageSave(msg *t.Message) error
	// MessageGet returns a message by channel and seq id, (nil, nil) if missing.
	MessageGet(ch t.Uid, seq int64) (*t.Message, error)
	// MessagesForChannel returns messages with seq greater than since in
	// ascending seq order. Zero limit means no limit.
	MessagesForChannel(ch t.Uid, since int64, limit int) ([]t.Message, error)
	// MessageUpdate replaces content and sets the edited timestamp.
	MessageUpdate(ch t.Uid, seq int64, content string, editedAt time.Time) error
	// MessageDelete removes a single message together with its reactions.
	MessageDelete(ch t.Uid, seq int64) error
	// MessageDeleteForUser purges all messages by the user in all channels of
	// the room in one transaction. Returns the number of rows removed.
	MessageDeleteForUser(room, user t.Uid) (int64, error)
	// MessageCountSince counts messages in the channel with seq greater than
	// since, excluding those authored by skip.
	MessageCountSince(ch t.Uid, since int64, skip t.Uid) (int, error)
	// MessageLastSeq returns the highest seq id in the channel, 0 if empty.
	MessageLastSeq(ch t.Uid) (int64, error)

	// Reactions

	// ReactionToggle inserts the triple or, when it already exists, deletes
	// it, all under the uniqueness constraint. Returns "added" or "removed".
	ReactionToggle(msg int64, user t.Uid, emoji, kind string) (string, error)
	// ReactionsForMessages returns reactions for the given messages in
	// insertion order.
	ReactionsForMessages(msgs []int64) ([]t.Reaction, error)

	// Read markers

	// MarkerUpsert records the last read seq for (user, channel).
	MarkerUpsert(marker *t.ReadMarker) error
	// MarkerGet reads a marker, (nil, nil) if missing.
	MarkerGet(user, ch t.Uid) (*t.ReadMarker, error)

	// Music library

	// TrackAdd stores a track owned by a user.
	TrackAdd(track *t.Track) error
	// TracksForUser returns the user's library ordered by addition time.
	TracksForUser(user t.Uid) ([]t.Track, error)
	// TrackDelete removes a track owned by the user.
	TrackDelete(id, user t.Uid) error

	// Files

	// FileStartUpload records a file upload in progress.
	FileStartUpload(fd *t.FileDef) error
	// FileFinishUpload marks the upload as completed or failed.
	FileFinishUpload(fid t.Uid, status int, size int64) (*t.FileDef, error)
	// FileGet fetches a file record, (nil, nil) if missing.
	FileGet(fid t.Uid) (*t.FileDef, error)
	// FileDelete removes a file record.
	FileDelete(fid t.Uid) error
}
