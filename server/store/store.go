// Package store provides access to the database through entity mappers over a
// registered adapter. A Store is constructed once at startup and handed to the
// engines which use it; nothing here is package-global except the adapter
// registry populated by adapter init() functions.
//
// Adapters report a missing row as (nil, nil). The mappers translate that
// into types.ErrNotFound so the engines see a single convention: a Get
// either returns the record or a non-nil error.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nestwire/nestwire/server/store/adapter"
	"github.com/nestwire/nestwire/server/store/types"
)

var availableAdapters = make(map[string]adapter.Adapter)

// RegisterAdapter makes a persistence adapter available by the provided name.
// If RegisterAdapter is called twice with the same name or if the adapter is
// nil, it panics.
func RegisterAdapter(name string, a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}
	if _, dup := availableAdapters[name]; dup {
		panic("store: adapter '" + name + "' is already registered")
	}
	availableAdapters[name] = a
}

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.UidGenerator.
	UidKey []byte `json:"uid_key"`
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

// Store is the main object for interacting with persistent storage. The
// per-entity mapper fields are interfaces so tests can swap in mocks.
type Store struct {
	adp  adapter.Adapter
	uGen types.UidGenerator

	Users     UsersPersister
	Rooms     RoomsPersister
	Channels  ChannelsPersister
	Members   MembersPersister
	Bans      BansPersister
	Messages  MessagesPersister
	Reactions ReactionsPersister
	Markers   MarkersPersister
	Tracks    TracksPersister
	Files     FilesPersister
}

// Open initializes the persistence system: selects and opens the adapter,
// seeds the uid generator, wires the mappers.
//
//	workerId - snowflake worker id, unique per running instance
//	jsonconf - store configuration string
func Open(workerId int, jsonconf json.RawMessage) (*Store, error) {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return nil, errors.New("store: failed to parse config: " + err.Error())
	}

	var adp adapter.Adapter
	if len(config.UseAdapter) > 0 {
		adp = availableAdapters[config.UseAdapter]
		if adp == nil {
			return nil, errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
		}
	} else if len(availableAdapters) == 1 {
		for _, a := range availableAdapters {
			adp = a
		}
	} else {
		return nil, errors.New("store: db adapter is not specified")
	}

	if adp.IsOpen() {
		return nil, errors.New("store: connection is already opened")
	}

	if workerId < 0 || workerId > 1023 {
		return nil, errors.New("store: invalid worker ID")
	}

	s := &Store{adp: adp}
	if err := s.uGen.Init(uint(workerId), config.UidKey); err != nil {
		return nil, errors.New("store: failed to init snowflake: " + err.Error())
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[config.UseAdapter]
	}
	if err := adp.Open(string(adapterConfig)); err != nil {
		return nil, err
	}

	s.Users = usersMapper{s}
	s.Rooms = roomsMapper{s}
	s.Channels = channelsMapper{s}
	s.Members = membersMapper{s}
	s.Bans = bansMapper{s}
	s.Messages = messagesMapper{s}
	s.Reactions = reactionsMapper{s}
	s.Markers = markersMapper{s}
	s.Tracks = tracksMapper{s}
	s.Files = filesMapper{s}

	return s, nil
}

// InitDb creates the database schema. When reset is true the database is
// dropped first.
func (s *Store) InitDb(reset bool) error {
	return s.adp.CreateDb(reset)
}

// Close terminates the connection to the persistent storage.
func (s *Store) Close() error {
	if s.adp.IsOpen() {
		return s.adp.Close()
	}
	return nil
}

// GetUid generates a unique ID suitable for a new object.
func (s *Store) GetUid() types.Uid {
	return s.uGen.Get()
}

// NextSeq returns the next monotonically increasing message sequence id.
func (s *Store) NextSeq() int64 {
	return s.uGen.GetSeq()
}

// UsersPersister is a mapper interface for user objects.
type UsersPersister interface {
	// Create assigns an id to the user, persists it and stores the secret.
	Create(user *types.User, secret []byte) (*types.User, error)
	Get(uid types.Uid) (*types.User, error)
	GetByUsername(uname string) (*types.User, error)
	GetAll(ids ...types.Uid) ([]types.User, error)
	Update(uid types.Uid, update map[string]any) error
	Delete(uid types.Uid) error
	UpdatePresence(uid types.Uid, status types.PresenceStatus, lastSeen *time.Time) error
	Find(query string, all bool) ([]types.User, error)
	IsIPBanned(addr string) (bool, error)
	BanGlobal(uid, by types.Uid, reason, addr string, purge bool) ([]types.Uid, error)
	UnbanGlobal(uid types.Uid) error
	GetAuthRecord(uname string) (types.Uid, []byte, error)
	UpdateAuthRecord(uid types.Uid, secret []byte) error
}

// RoomsPersister is a mapper interface for room objects.
type RoomsPersister interface {
	// Create assigns an id to the room and persists it together with the
	// owner membership and the default channel.
	Create(room *types.Room, defaultChannel *types.Channel) (*types.Room, error)
	// CreateDM persists a DM room with the single channel and both memberships.
	CreateDM(first, second types.Uid) (*types.Room, *types.Channel, error)
	Get(room types.Uid) (*types.Room, error)
	GetByInvite(token string) (*types.Room, error)
	GetDM(first, second types.Uid) (*types.Room, error)
	Update(room types.Uid, update map[string]any) error
	Delete(room types.Uid) error
	Public(all bool) ([]types.Room, error)
}

// ChannelsPersister is a mapper interface for channel objects.
type ChannelsPersister interface {
	Create(ch *types.Channel) (*types.Channel, error)
	Get(ch types.Uid) (*types.Channel, error)
	ForRoom(room types.Uid) ([]types.Channel, error)
	Update(ch types.Uid, update map[string]any) error
	Delete(ch types.Uid) error
}

// MembersPersister is a mapper interface for membership objects.
type MembersPersister interface {
	Add(room, user types.Uid, role types.Role) (*types.Membership, error)
	Get(room, user types.Uid) (*types.Membership, error)
	ForRoom(room types.Uid) ([]types.Membership, error)
	ForUser(user types.Uid) ([]types.Membership, error)
	UpdateRole(room, user types.Uid, role types.Role) error
	Delete(room, user types.Uid) error
}

// BansPersister is a mapper interface for room ban objects.
type BansPersister interface {
	// Ban runs the membership-to-ban transaction. Returns the purge count.
	Ban(ban *types.RoomBan, purge bool) (int64, error)
	Get(room, user types.Uid) (*types.RoomBan, error)
	ForRoom(room types.Uid) ([]types.RoomBan, error)
	Delete(room, user types.Uid) error
}

// MessagesPersister is a mapper interface for message objects.
type MessagesPersister interface {
	// Save assigns the next seq id and the timestamp, then persists.
	Save(msg *types.Message) (*types.Message, error)
	Get(ch types.Uid, seq int64) (*types.Message, error)
	ForChannel(ch types.Uid, since int64, limit int) ([]types.Message, error)
	Update(ch types.Uid, seq int64, content string, editedAt time.Time) error
	Delete(ch types.Uid, seq int64) error
	DeleteForUser(room, user types.Uid) (int64, error)
	CountSince(ch types.Uid, since int64, skip types.Uid) (int, error)
	LastSeq(ch types.Uid) (int64, error)
}

// ReactionsPersister is a mapper interface for reaction objects.
type ReactionsPersister interface {
	Toggle(msg int64, user types.Uid, emoji, kind string) (string, error)
	ForMessages(msgs []int64) ([]types.Reaction, error)
}

// MarkersPersister is a mapper interface for read marker objects.
type MarkersPersister interface {
	Upsert(user, ch types.Uid, lastReadSeq int64) error
	Get(user, ch types.Uid) (*types.ReadMarker, error)
}

// TracksPersister is a mapper interface for music library objects.
type TracksPersister interface {
	Add(track *types.Track) (*types.Track, error)
	ForUser(user types.Uid) ([]types.Track, error)
	Delete(id, user types.Uid) error
}

// FilesPersister is a mapper interface for file upload records.
type FilesPersister interface {
	StartUpload(fd *types.FileDef) (*types.FileDef, error)
	FinishUpload(fid types.Uid, success bool, size int64) (*types.FileDef, error)
	Get(fid types.Uid) (*types.FileDef, error)
	Delete(fid types.Uid) error
}

type usersMapper struct{ s *Store }

func (m usersMapper) Create(user *types.User, secret []byte) (*types.User, error) {
	user.SetUid(m.s.GetUid())
	user.InitTimes()
	if user.Public == "" {
		user.Public = user.Username
	}
	if user.Status == "" {
		user.Status = types.PresenceOffline
	}
	if err := m.s.adp.UserCreate(user); err != nil {
		return nil, err
	}
	if err := m.s.adp.AuthAddRecord(user.Uid(), secret); err != nil {
		m.s.adp.UserDelete(user.Uid())
		return nil, err
	}
	return user, nil
}

func (m usersMapper) Get(uid types.Uid) (*types.User, error) {
	user, err := m.s.adp.UserGet(uid)
	if err == nil && user == nil {
		return nil, types.ErrNotFound
	}
	return user, err
}

func (m usersMapper) GetByUsername(uname string) (*types.User, error) {
	user, err := m.s.adp.UserGetByUsername(uname)
	if err == nil && user == nil {
		return nil, types.ErrNotFound
	}
	return user, err
}

func (m usersMapper) GetAll(ids ...types.Uid) ([]types.User, error) {
	return m.s.adp.UserGetAll(ids...)
}

func (m usersMapper) Update(uid types.Uid, update map[string]any) error {
	update["UpdatedAt"] = types.TimeNow()
	return m.s.adp.UserUpdate(uid, update)
}

func (m usersMapper) Delete(uid types.Uid) error {
	return m.s.adp.UserDelete(uid)
}

func (m usersMapper) UpdatePresence(uid types.Uid, status types.PresenceStatus, lastSeen *time.Time) error {
	return m.s.adp.UserUpdatePresence(uid, status, lastSeen)
}

func (m usersMapper) Find(query string, all bool) ([]types.User, error) {
	return m.s.adp.UserFind(query, all)
}

func (m usersMapper) IsIPBanned(addr string) (bool, error) {
	return m.s.adp.UserIsIPBanned(addr)
}

func (m usersMapper) BanGlobal(uid, by types.Uid, reason, addr string, purge bool) ([]types.Uid, error) {
	return m.s.adp.UserBanGlobal(uid, by, reason, addr, purge)
}

func (m usersMapper) UnbanGlobal(uid types.Uid) error {
	return m.s.adp.UserUnbanGlobal(uid)
}

func (m usersMapper) GetAuthRecord(uname string) (types.Uid, []byte, error) {
	return m.s.adp.AuthGetRecord(uname)
}

func (m usersMapper) UpdateAuthRecord(uid types.Uid, secret []byte) error {
	return m.s.adp.AuthUpdRecord(uid, secret)
}

type roomsMapper struct{ s *Store }

func (m roomsMapper) Create(room *types.Room, defaultChannel *types.Channel) (*types.Room, error) {
	room.SetUid(m.s.GetUid())
	room.InitTimes()
	defaultChannel.SetUid(m.s.GetUid())
	defaultChannel.Room = room.Uid()
	defaultChannel.InitTimes()
	if err := m.s.adp.RoomCreate(room, defaultChannel); err != nil {
		return nil, err
	}
	return room, nil
}

func (m roomsMapper) CreateDM(first, second types.Uid) (*types.Room, *types.Channel, error) {
	room := &types.Room{Kind: types.RoomKindDM, Owner: first}
	room.SetUid(m.s.GetUid())
	room.InitTimes()
	ch := &types.Channel{Room: room.Uid(), Name: "dm"}
	ch.SetUid(m.s.GetUid())
	ch.InitTimes()
	if err := m.s.adp.RoomCreateDM(room, ch, first, second); err != nil {
		return nil, nil, err
	}
	return room, ch, nil
}

func (m roomsMapper) Get(room types.Uid) (*types.Room, error) {
	rec, err := m.s.adp.RoomGet(room)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m roomsMapper) GetByInvite(token string) (*types.Room, error) {
	rec, err := m.s.adp.RoomGetByInvite(token)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m roomsMapper) GetDM(first, second types.Uid) (*types.Room, error) {
	rec, err := m.s.adp.RoomGetDM(first, second)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m roomsMapper) Update(room types.Uid, update map[string]any) error {
	update["UpdatedAt"] = types.TimeNow()
	return m.s.adp.RoomUpdate(room, update)
}

func (m roomsMapper) Delete(room types.Uid) error {
	return m.s.adp.RoomDelete(room)
}

func (m roomsMapper) Public(all bool) ([]types.Room, error) {
	return m.s.adp.RoomsPublic(all)
}

type channelsMapper struct{ s *Store }

func (m channelsMapper) Create(ch *types.Channel) (*types.Channel, error) {
	ch.SetUid(m.s.GetUid())
	ch.InitTimes()
	if err := m.s.adp.ChannelCreate(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (m channelsMapper) Get(ch types.Uid) (*types.Channel, error) {
	rec, err := m.s.adp.ChannelGet(ch)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m channelsMapper) ForRoom(room types.Uid) ([]types.Channel, error) {
	return m.s.adp.ChannelsForRoom(room)
}

func (m channelsMapper) Update(ch types.Uid, update map[string]any) error {
	update["UpdatedAt"] = types.TimeNow()
	return m.s.adp.ChannelUpdate(ch, update)
}

func (m channelsMapper) Delete(ch types.Uid) error {
	return m.s.adp.ChannelDelete(ch)
}

type membersMapper struct{ s *Store }

func (m membersMapper) Add(room, user types.Uid, role types.Role) (*types.Membership, error) {
	sub := &types.Membership{Room: room, User: user, Role: role}
	sub.SetUid(m.s.GetUid())
	sub.InitTimes()
	if err := m.s.adp.MemberAdd(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (m membersMapper) Get(room, user types.Uid) (*types.Membership, error) {
	rec, err := m.s.adp.MemberGet(room, user)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m membersMapper) ForRoom(room types.Uid) ([]types.Membership, error) {
	return m.s.adp.MembersForRoom(room)
}

func (m membersMapper) ForUser(user types.Uid) ([]types.Membership, error) {
	return m.s.adp.MembersForUser(user)
}

func (m membersMapper) UpdateRole(room, user types.Uid, role types.Role) error {
	return m.s.adp.MemberUpdateRole(room, user, role)
}

func (m membersMapper) Delete(room, user types.Uid) error {
	return m.s.adp.MemberDelete(room, user)
}

type bansMapper struct{ s *Store }

func (m bansMapper) Ban(ban *types.RoomBan, purge bool) (int64, error) {
	ban.SetUid(m.s.GetUid())
	ban.InitTimes()
	ban.Purged = purge
	return m.s.adp.MemberBan(ban, purge)
}

func (m bansMapper) Get(room, user types.Uid) (*types.RoomBan, error) {
	rec, err := m.s.adp.BanGet(room, user)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m bansMapper) ForRoom(room types.Uid) ([]types.RoomBan, error) {
	return m.s.adp.BansForRoom(room)
}

func (m bansMapper) Delete(room, user types.Uid) error {
	return m.s.adp.BanDelete(room, user)
}

type messagesMapper struct{ s *Store }

func (m messagesMapper) Save(msg *types.Message) (*types.Message, error) {
	msg.SeqId = m.s.NextSeq()
	msg.CreatedAt = types.TimeNow()
	if err := m.s.adp.MessageSave(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m messagesMapper) Get(ch types.Uid, seq int64) (*types.Message, error) {
	rec, err := m.s.adp.MessageGet(ch, seq)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m messagesMapper) ForChannel(ch types.Uid, since int64, limit int) ([]types.Message, error) {
	return m.s.adp.MessagesForChannel(ch, since, limit)
}

func (m messagesMapper) Update(ch types.Uid, seq int64, content string, editedAt time.Time) error {
	return m.s.adp.MessageUpdate(ch, seq, content, editedAt)
}

func (m messagesMapper) Delete(ch types.Uid, seq int64) error {
	return m.s.adp.MessageDelete(ch, seq)
}

func (m messagesMapper) DeleteForUser(room, user types.Uid) (int64, error) {
	return m.s.adp.MessageDeleteForUser(room, user)
}

func (m messagesMapper) CountSince(ch types.Uid, since int64, skip types.Uid) (int, error) {
	return m.s.adp.MessageCountSince(ch, since, skip)
}

func (m messagesMapper) LastSeq(ch types.Uid) (int64, error) {
	return m.s.adp.MessageLastSeq(ch)
}

type reactionsMapper struct{ s *Store }

func (m reactionsMapper) Toggle(msg int64, user types.Uid, emoji, kind string) (string, error) {
	return m.s.adp.ReactionToggle(msg, user, emoji, kind)
}

func (m reactionsMapper) ForMessages(msgs []int64) ([]types.Reaction, error) {
	return m.s.adp.ReactionsForMessages(msgs)
}

type markersMapper struct{ s *Store }

func (m markersMapper) Upsert(user, ch types.Uid, lastReadSeq int64) error {
	return m.s.adp.MarkerUpsert(&types.ReadMarker{
		User:        user,
		Channel:     ch,
		LastReadSeq: lastReadSeq,
		ReadAt:      types.TimeNow(),
	})
}

func (m markersMapper) Get(user, ch types.Uid) (*types.ReadMarker, error) {
	rec, err := m.s.adp.MarkerGet(user, ch)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

type tracksMapper struct{ s *Store }

func (m tracksMapper) Add(track *types.Track) (*types.Track, error) {
	track.SetUid(m.s.GetUid())
	track.InitTimes()
	if err := m.s.adp.TrackAdd(track); err != nil {
		return nil, err
	}
	return track, nil
}

func (m tracksMapper) ForUser(user types.Uid) ([]types.Track, error) {
	return m.s.adp.TracksForUser(user)
}

func (m tracksMapper) Delete(id, user types.Uid) error {
	return m.s.adp.TrackDelete(id, user)
}

type filesMapper struct{ s *Store }

func (m filesMapper) StartUpload(fd *types.FileDef) (*types.FileDef, error) {
	fd.SetUid(m.s.GetUid())
	fd.InitTimes()
	fd.Status = types.UploadStarted
	if err := m.s.adp.FileStartUpload(fd); err != nil {
		return nil, err
	}
	return fd, nil
}

func (m filesMapper) FinishUpload(fid types.Uid, success bool, size int64) (*types.FileDef, error) {
	status := types.UploadCompleted
	if !success {
		status = types.UploadFailed
	}
	return m.s.adp.FileFinishUpload(fid, status, size)
}

func (m filesMapper) Get(fid types.Uid) (*types.FileDef, error) {
	rec, err := m.s.adp.FileGet(fid)
	if err == nil && rec == nil {
		return nil, types.ErrNotFound
	}
	return rec, err
}

func (m filesMapper) Delete(fid types.Uid) error {
	return m.s.adp.FileDelete(fid)
}
