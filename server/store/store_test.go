package store

import (
	"testing"

	"github.com/nestwire/nestwire/server/store/adapter"
	"github.com/nestwire/nestwire/server/store/types"
)

// emptyDbAdapter answers every single-record lookup with (nil, nil), the way
// adapters report a missing row. Everything else panics via the nil embedded
// interface, which is fine: the tests below only exercise the Get paths.
type emptyDbAdapter struct {
	adapter.Adapter
}

func (emptyDbAdapter) UserGet(types.Uid) (*types.User, error)             { return nil, nil }
func (emptyDbAdapter) UserGetByUsername(string) (*types.User, error)      { return nil, nil }
func (emptyDbAdapter) RoomGet(types.Uid) (*types.Room, error)             { return nil, nil }
func (emptyDbAdapter) RoomGetByInvite(string) (*types.Room, error)        { return nil, nil }
func (emptyDbAdapter) RoomGetDM(types.Uid, types.Uid) (*types.Room, error) {
	return nil, nil
}
func (emptyDbAdapter) ChannelGet(types.Uid) (*types.Channel, error) { return nil, nil }
func (emptyDbAdapter) MemberGet(types.Uid, types.Uid) (*types.Membership, error) {
	return nil, nil
}
func (emptyDbAdapter) BanGet(types.Uid, types.Uid) (*types.RoomBan, error) {
	return nil, nil
}
func (emptyDbAdapter) MessageGet(types.Uid, int64) (*types.Message, error) {
	return nil, nil
}
func (emptyDbAdapter) MarkerGet(types.Uid, types.Uid) (*types.ReadMarker, error) {
	return nil, nil
}
func (emptyDbAdapter) FileGet(types.Uid) (*types.FileDef, error) { return nil, nil }

func emptyStore() *Store {
	s := &Store{adp: emptyDbAdapter{}}
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
	return s
}

// Adapters signal an absent row as (nil, nil). The mappers must turn that
// into types.ErrNotFound so callers never have to nil-check a successful Get.
func TestMappersTranslateMissingRow(t *testing.T) {
	s := emptyStore()
	uid := types.Uid(1)

	checks := []struct {
		name string
		get  func() (any, error)
	}{
		{"Users.Get", func() (any, error) { return s.Users.Get(uid) }},
		{"Users.GetByUsername", func() (any, error) { return s.Users.GetByUsername("alice") }},
		{"Rooms.Get", func() (any, error) { return s.Rooms.Get(uid) }},
		{"Rooms.GetByInvite", func() (any, error) { return s.Rooms.GetByInvite("tok") }},
		{"Rooms.GetDM", func() (any, error) { return s.Rooms.GetDM(uid, types.Uid(2)) }},
		{"Channels.Get", func() (any, error) { return s.Channels.Get(uid) }},
		{"Members.Get", func() (any, error) { return s.Members.Get(uid, types.Uid(2)) }},
		{"Bans.Get", func() (any, error) { return s.Bans.Get(uid, types.Uid(2)) }},
		{"Messages.Get", func() (any, error) { return s.Messages.Get(uid, 1) }},
		{"Markers.Get", func() (any, error) { return s.Markers.Get(uid, types.Uid(2)) }},
		{"Files.Get", func() (any, error) { return s.Files.Get(uid) }},
	}

	for _, c := range checks {
		rec, err := c.get()
		if err != types.ErrNotFound {
			t.Errorf("%s: expected ErrNotFound, got %v", c.name, err)
		}
		if rec != nil && !isNilPtr(rec) {
			t.Errorf("%s: expected nil record, got %v", c.name, rec)
		}
	}
}

func isNilPtr(v any) bool {
	switch p := v.(type) {
	case *types.User:
		return p == nil
	case *types.Room:
		return p == nil
	case *types.Channel:
		return p == nil
	case *types.Membership:
		return p == nil
	case *types.RoomBan:
		return p == nil
	case *types.Message:
		return p == nil
	case *types.ReadMarker:
		return p == nil
	case *types.FileDef:
		return p == nil
	default:
		return false
	}
}
