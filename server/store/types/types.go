// Package types provides data types for persisting objects in the database.
package types

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

// StoreError satisfies Error interface but allows constant values for
// direct comparison.
type StoreError string

// Error is required by error interface.
func (s StoreError) Error() string {
	return string(s)
}

const (
	// ErrInternal means DB or other internal failure.
	ErrInternal = StoreError("internal")
	// ErrMalformed means the input is malformed.
	ErrMalformed = StoreError("malformed")
	// ErrFailed means the operation failed for unspecified reason.
	ErrFailed = StoreError("failed")
	// ErrDuplicate means duplicate unique value, e.g. username or invite token.
	ErrDuplicate = StoreError("duplicate value")
	// ErrPermissionDenied means the caller is authenticated but lacks the
	// required role, ownership or membership.
	ErrPermissionDenied = StoreError("denied")
	// ErrUnauthorized means the caller has no valid identity.
	ErrUnauthorized = StoreError("unauthorized")
	// ErrNotFound means the referenced object does not exist.
	ErrNotFound = StoreError("not found")
	// ErrUnavailable means a collaborator (storage) failed transiently.
	ErrUnavailable = StoreError("unavailable")
)

// Uid is a database-specific record id, suitable to be used as a primary key.
type Uid uint64

// ZeroUid is a constant representing uninitialized Uid.
const ZeroUid Uid = 0

// Lengths of various Uid representations.
const (
	uidBase64Unpadded = 11
	uidBase64Padded   = 12
)

// IsZero checks if Uid is uninitialized.
func (uid Uid) IsZero() bool {
	return uid == 0
}

// Compare returns 0 if uid is equal to u2, 1 if u2 is greater than uid, -1 if u2 is smaller.
func (uid Uid) Compare(u2 Uid) int {
	if uid < u2 {
		return -1
	} else if uid > u2 {
		return 1
	}
	return 0
}

// MarshalBinary converts Uid to byte slice.
func (uid Uid) MarshalBinary() ([]byte, error) {
	dst := make([]byte, 8)
	binary.LittleEndian.PutUint64(dst, uint64(uid))
	return dst, nil
}

// UnmarshalBinary reads Uid from byte slice.
func (uid *Uid) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return errors.New("Uid.UnmarshalBinary: invalid length")
	}
	*uid = Uid(binary.LittleEndian.Uint64(b))
	return nil
}

// UnmarshalText reads Uid from string represented as byte slice.
func (uid *Uid) UnmarshalText(src []byte) error {
	if len(src) != uidBase64Unpadded {
		return errors.New("Uid.UnmarshalText: invalid length")
	}
	dec := make([]byte, base64.URLEncoding.DecodedLen(uidBase64Padded))
	for len(src) < uidBase64Padded {
		src = append(src, '=')
	}
	count, err := base64.URLEncoding.Decode(dec, src)
	if count < 8 {
		if err != nil {
			return errors.New("Uid.UnmarshalText: failed to decode " + err.Error())
		}
		return errors.New("Uid.UnmarshalText: failed to decode")
	}
	*uid = Uid(binary.LittleEndian.Uint64(dec))
	return nil
}

// MarshalText converts Uid to string represented as byte slice.
func (uid Uid) MarshalText() ([]byte, error) {
	if uid == 0 {
		return []byte{}, nil
	}
	src := make([]byte, 8)
	dst := make([]byte, base64.URLEncoding.EncodedLen(8))
	binary.LittleEndian.PutUint64(src, uint64(uid))
	base64.URLEncoding.Encode(dst, src)
	return dst[0:uidBase64Unpadded], nil
}

// MarshalJSON converts Uid to double quoted ("ajjj") string.
func (uid Uid) MarshalJSON() ([]byte, error) {
	dst, _ := uid.MarshalText()
	return append(append([]byte{'"'}, dst...), '"'), nil
}

// UnmarshalJSON reads Uid from a double quoted string.
func (uid *Uid) UnmarshalJSON(b []byte) error {
	size := len(b)
	if size != (uidBase64Unpadded + 2) {
		return errors.New("Uid.UnmarshalJSON: invalid length")
	} else if b[0] != '"' || b[size-1] != '"' {
		return errors.New("Uid.UnmarshalJSON: unrecognized")
	}
	return uid.UnmarshalText(b[1 : size-1])
}

// String converts Uid to base64 string.
func (uid Uid) String() string {
	buf, _ := uid.MarshalText()
	return string(buf)
}

// ParseUid parses string NOT prefixed with anything.
func ParseUid(s string) Uid {
	var uid Uid
	uid.UnmarshalText([]byte(s))
	return uid
}

// UserId converts Uid to string prefixed with 'usr', like usrXXXXX.
func (uid Uid) UserId() string {
	return uid.PrefixId("usr")
}

// ChannelId converts Uid to string prefixed with 'chn', like chnXXXXX.
func (uid Uid) ChannelId() string {
	return uid.PrefixId("chn")
}

// PrefixId converts Uid to string prefixed with the given prefix.
func (uid Uid) PrefixId(prefix string) string {
	if uid.IsZero() {
		return ""
	}
	return prefix + uid.String()
}

// ParseUserId parses user ID of the form "usrXXXXXX".
func ParseUserId(s string) Uid {
	var uid Uid
	if len(s) > 3 && s[:3] == "usr" {
		uid.UnmarshalText([]byte(s)[3:])
	}
	return uid
}

// ParseChannelId parses channel topic name of the form "chnXXXXXX".
func ParseChannelId(s string) Uid {
	var uid Uid
	if len(s) > 3 && s[:3] == "chn" {
		uid.UnmarshalText([]byte(s)[3:])
	}
	return uid
}

// ObjHeader is the header shared by all stored objects.
type ObjHeader struct {
	// Id is the string form of the encrypted object id.
	Id        string
	id        Uid
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Uid assigns Uid header field.
func (h *ObjHeader) Uid() Uid {
	if h.id.IsZero() && h.Id != "" {
		h.id.UnmarshalText([]byte(h.Id))
	}
	return h.id
}

// SetUid assigns given Uid to appropriate header fields.
func (h *ObjHeader) SetUid(uid Uid) {
	h.id = uid
	h.Id = uid.String()
}

// InitTimes initializes time.Time variables in the header to current time.
func (h *ObjHeader) InitTimes() {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = TimeNow()
	}
	h.UpdatedAt = h.CreatedAt
}

// TimeNow returns current wall time in UTC rounded to milliseconds.
func TimeNow() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

// RoomKind is the type of a room: direct message, regular server or
// broadcast channel.
type RoomKind string

// Room kinds.
const (
	RoomKindDM        RoomKind = "dm"
	RoomKindServer    RoomKind = "server"
	RoomKindBroadcast RoomKind = "broadcast"
)

// Role is a user's role within a room.
type Role string

// Membership roles. The owner role exists for exactly the room creator and
// is never reassigned except by deleting the room.
const (
	RoleNone   Role = ""
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// IsModerator reports whether the role grants moderation rights.
func (r Role) IsModerator() bool {
	return r == RoleOwner || r == RoleAdmin
}

// PresenceStatus is a user's live availability state shown to others.
type PresenceStatus string

// Presence states.
const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
	PresenceHidden  PresenceStatus = "hidden"
)

// MessageType describes message content.
type MessageType string

// Message content types.
const (
	MessageText    MessageType = "text"
	MessageImage   MessageType = "image"
	MessageFile    MessageType = "file"
	MessageMusic   MessageType = "music"
	MessageSticker MessageType = "sticker"
	MessageVideo   MessageType = "video"
)

// User is a stored user record.
type User struct {
	ObjHeader

	Username string
	// Displayed name, defaults to Username.
	Public string
	// Avatar URL, may be blank.
	Avatar string
	Bio    string

	// Privacy flags.
	Searchable bool
	Listable   bool

	// Presence fields.
	Status     PresenceStatus
	LastSeen   *time.Time
	HideStatus bool

	// Address of the most recent login.
	LastIP string

	// Global superuser capability.
	Superuser bool

	// Global ban fields.
	Banned    bool
	BanReason string
	BannedAt  *time.Time
	BannedIPs []string
}

// Room is a top-level conversation container: DM, server or broadcast.
type Room struct {
	ObjHeader

	Name   string
	Kind   RoomKind
	Public bool
	Owner  Uid
	Avatar string
	// Unique invite token, generated lazily. Blank means not generated yet.
	InviteToken string
}

// Channel is an ordered message stream within a room.
type Channel struct {
	ObjHeader

	Room        Uid
	Name        string
	Description string
	IconEmoji   string
}

// Membership is a user's role-bearing presence in a room. At most one
// membership per (user, room).
type Membership struct {
	ObjHeader

	User Uid
	Room Uid
	Role Role
}

// RoomBan is a durable record barring a user from rejoining a room.
// Mutually exclusive with an active Membership for the same (user, room).
type RoomBan struct {
	ObjHeader

	Room     Uid
	User     Uid
	BannedBy Uid
	Reason   string
	// True if the target's messages were purged together with the ban.
	Purged bool
}

// Message is a single chat message. SeqId is a raw snowflake value,
// monotonically increasing within a channel.
type Message struct {
	SeqId     int64
	CreatedAt time.Time
	Channel   Uid
	From      Uid

	Content string
	Type    MessageType

	// Optional file attachment reference.
	FileURL  string
	FileName string
	FileSize int64

	EditedAt *time.Time

	// SeqId of the message being replied to, 0 if none. The referenced
	// message must belong to the same channel; it may have been deleted
	// since, in which case the reply is left unresolved.
	ReplyTo int64
}

// Reaction is a (message, user, emoji) triple, unique per triple.
type Reaction struct {
	Id      int64
	Message int64
	User    Uid
	Emoji   string
	Kind    string
}

// ReadMarker is a per-user-per-channel pointer to the last message read.
type ReadMarker struct {
	User        Uid
	Channel     Uid
	LastReadSeq int64
	ReadAt      time.Time
}

// Track is a single entry in a user's music library.
type Track struct {
	ObjHeader

	User    Uid
	Title   string
	Artist  string
	FileURL string
	Cover   string
}

// Upload states.
const (
	UploadStarted = iota
	UploadCompleted
	UploadFailed
)

// FileDef is a stored record of a file upload.
type FileDef struct {
	ObjHeader

	// Status of upload: UploadStarted, UploadCompleted, UploadFailed.
	Status int

	User     Uid
	MimeType string
	Size     int64
	Location string
}
