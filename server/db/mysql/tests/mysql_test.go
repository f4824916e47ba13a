// Integration test of the MySQL adapter against a live database.
//
// Reads ./test.json for connection settings. The whole suite is skipped when
// the database is unreachable, so it is safe to run as part of the regular
// test sweep on machines without MySQL.

package tests

import (
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	jcr "github.com/tinode/jsonco"

	backend "github.com/nestwire/nestwire/server/db/mysql"
	"github.com/nestwire/nestwire/server/store/adapter"
	"github.com/nestwire/nestwire/server/store/types"
)

type configType struct {
	// Connection without a default schema, for creating the test database.
	Bootstrap json.RawMessage `json:"bootstrap"`
	// Connection to the test database itself.
	Adapter json.RawMessage `json:"adapter"`
}

var adp adapter.Adapter

var (
	uidAlice = types.Uid(1001)
	uidBob   = types.Uid(1002)
	uidCarol = types.Uid(1003)
)

func newUser(uid types.Uid, uname string) *types.User {
	user := &types.User{
		Username:   uname,
		Public:     uname,
		Searchable: true,
		Listable:   true,
		Status:     types.PresenceOffline,
	}
	user.SetUid(uid)
	user.InitTimes()
	return user
}

func newRoom(id, owner types.Uid, kind types.RoomKind, public bool) *types.Room {
	room := &types.Room{Name: "room " + id.String(), Kind: kind, Public: public, Owner: owner}
	room.SetUid(id)
	room.InitTimes()
	return room
}

func newChannel(id, room types.Uid, name string) *types.Channel {
	ch := &types.Channel{Room: room, Name: name}
	ch.SetUid(id)
	ch.InitTimes()
	return ch
}

// ignoreHidden skips the unexported uid cache inside ObjHeader.
var ignoreHidden = cmpopts.IgnoreUnexported(types.ObjHeader{})

func TestMain(m *testing.M) {
	configFile, err := os.Open("test.json")
	if err != nil {
		log.Println("mysql tests skipped: cannot open test.json:", err)
		os.Exit(0)
	}

	var config configType
	jr := jcr.New(configFile)
	err = json.NewDecoder(jr).Decode(&config)
	configFile.Close()
	if err != nil {
		log.Fatalln("mysql tests: failed to parse test.json:", err)
	}

	adp = backend.GetAdapter()

	// Bootstrap: connect without a schema, recreate the test database.
	if err = adp.Open(string(config.Bootstrap)); err != nil {
		log.Println("mysql tests skipped: database unreachable:", err)
		os.Exit(0)
	}
	if err = adp.CreateDb(true); err != nil {
		log.Fatalln("mysql tests: failed to create the database:", err)
	}
	adp.Close()

	// Reconnect with the test database as the default schema.
	if err = adp.Open(string(config.Adapter)); err != nil {
		log.Fatalln("mysql tests: failed to reconnect:", err)
	}

	code := m.Run()
	adp.Close()
	os.Exit(code)
}

func TestUserCreateGet(t *testing.T) {
	alice := newUser(uidAlice, "alice")
	alice.Bio = "resident cryptographer"
	for _, user := range []*types.User{alice, newUser(uidBob, "bob"), newUser(uidCarol, "carol")} {
		if err := adp.UserCreate(user); err != nil {
			t.Fatal("UserCreate failed:", err)
		}
	}

	dupe := newUser(types.Uid(1099), "alice")
	if err := adp.UserCreate(dupe); err != types.ErrDuplicate {
		t.Errorf("expected duplicate for a taken username, got %v", err)
	}

	got, err := adp.UserGet(uidAlice)
	if err != nil {
		t.Fatal("UserGet failed:", err)
	}
	if diff := cmp.Diff(alice, got, ignoreHidden); diff != "" {
		t.Errorf("user record mismatch (-want +got):\n%s", diff)
	}

	if got, err = adp.UserGet(types.Uid(404)); err != nil || got != nil {
		t.Errorf("missing user must be (nil, nil), got (%v, %v)", got, err)
	}

	byName, err := adp.UserGetByUsername("bob")
	if err != nil || byName == nil || byName.Uid() != uidBob {
		t.Errorf("UserGetByUsername failed: %v, %v", byName, err)
	}

	all, err := adp.UserGetAll(uidAlice, uidBob, types.Uid(404))
	if err != nil || len(all) != 2 {
		t.Errorf("UserGetAll expected 2 users, got %d (%v)", len(all), err)
	}
}

func TestUserUpdateFind(t *testing.T) {
	if err := adp.UserUpdate(uidBob, map[string]any{
		"public": "Bob the Builder", "updatedat": types.TimeNow()}); err != nil {
		t.Fatal("UserUpdate failed:", err)
	}
	got, _ := adp.UserGet(uidBob)
	if got.Public != "Bob the Builder" {
		t.Errorf("update not applied, public = %q", got.Public)
	}

	found, err := adp.UserFind("builder", false)
	if err != nil || len(found) != 1 || found[0].Uid() != uidBob {
		t.Errorf("UserFind by display name failed: %d matches, %v", len(found), err)
	}

	// Unsearchable users are hidden from regular search but not from all=true.
	if err = adp.UserUpdate(uidCarol, map[string]any{
		"searchable": false, "updatedat": types.TimeNow()}); err != nil {
		t.Fatal("UserUpdate failed:", err)
	}
	if found, _ = adp.UserFind("carol", false); len(found) != 0 {
		t.Errorf("unsearchable user leaked into search: %d matches", len(found))
	}
	if found, _ = adp.UserFind("carol", true); len(found) != 1 {
		t.Errorf("all=true must ignore privacy flags: %d matches", len(found))
	}
}

func TestAuthRecords(t *testing.T) {
	if err := adp.AuthAddRecord(uidAlice, []byte("hash-one")); err != nil {
		t.Fatal("AuthAddRecord failed:", err)
	}
	if err := adp.AuthAddRecord(uidAlice, []byte("hash-two")); err != types.ErrDuplicate {
		t.Errorf("expected duplicate on a second record, got %v", err)
	}

	uid, secret, err := adp.AuthGetRecord("alice")
	if err != nil || uid != uidAlice || string(secret) != "hash-one" {
		t.Errorf("AuthGetRecord mismatch: %d, %q, %v", uid, secret, err)
	}

	if err = adp.AuthUpdRecord(uidAlice, []byte("hash-three")); err != nil {
		t.Fatal("AuthUpdRecord failed:", err)
	}
	if _, secret, _ = adp.AuthGetRecord("alice"); string(secret) != "hash-three" {
		t.Errorf("secret not replaced, got %q", secret)
	}

	if _, _, err = adp.AuthGetRecord("nobody"); err != types.ErrNotFound {
		t.Errorf("expected not found for an unknown username, got %v", err)
	}
}

var (
	roomMain  = types.Uid(2001)
	chGeneral = types.Uid(3001)
	chRandom  = types.Uid(3002)
)

func TestRoomLifecycle(t *testing.T) {
	room := newRoom(roomMain, uidAlice, types.RoomKindServer, true)
	if err := adp.RoomCreate(room, newChannel(chGeneral, roomMain, "general")); err != nil {
		t.Fatal("RoomCreate failed:", err)
	}

	got, err := adp.RoomGet(roomMain)
	if err != nil {
		t.Fatal("RoomGet failed:", err)
	}
	if diff := cmp.Diff(room, got, ignoreHidden); diff != "" {
		t.Errorf("room record mismatch (-want +got):\n%s", diff)
	}

	// The create transaction also grants the owner membership.
	sub, err := adp.MemberGet(roomMain, uidAlice)
	if err != nil || sub == nil || sub.Role != types.RoleOwner {
		t.Errorf("owner membership missing or wrong: %v, %v", sub, err)
	}

	if err = adp.RoomUpdate(roomMain, map[string]any{
		"invitetoken": "tok-abc", "updatedat": types.TimeNow()}); err != nil {
		t.Fatal("RoomUpdate failed:", err)
	}
	byInvite, err := adp.RoomGetByInvite("tok-abc")
	if err != nil || byInvite == nil || byInvite.Uid() != roomMain {
		t.Errorf("RoomGetByInvite failed: %v, %v", byInvite, err)
	}

	public, err := adp.RoomsPublic(false)
	if err != nil || len(public) != 1 {
		t.Errorf("RoomsPublic expected 1 room, got %d (%v)", len(public), err)
	}
}

func TestChannels(t *testing.T) {
	if err := adp.ChannelCreate(newChannel(chRandom, roomMain, "random")); err != nil {
		t.Fatal("ChannelCreate failed:", err)
	}

	channels, err := adp.ChannelsForRoom(roomMain)
	if err != nil || len(channels) != 2 {
		t.Fatalf("ChannelsForRoom expected 2 channels, got %d (%v)", len(channels), err)
	}
	if channels[0].Name != "general" || channels[1].Name != "random" {
		t.Errorf("channels out of creation order: %q, %q", channels[0].Name, channels[1].Name)
	}

	if err = adp.ChannelUpdate(chRandom, map[string]any{
		"description": "off topic", "updatedat": types.TimeNow()}); err != nil {
		t.Fatal("ChannelUpdate failed:", err)
	}
	got, _ := adp.ChannelGet(chRandom)
	if got.Description != "off topic" {
		t.Errorf("update not applied, description = %q", got.Description)
	}
}

func TestMemberships(t *testing.T) {
	sub := &types.Membership{Room: roomMain, User: uidBob, Role: types.RoleMember}
	sub.SetUid(types.Uid(4001))
	sub.InitTimes()
	if err := adp.MemberAdd(sub); err != nil {
		t.Fatal("MemberAdd failed:", err)
	}
	if err := adp.MemberAdd(sub); err != types.ErrDuplicate {
		t.Errorf("expected duplicate on a repeated join, got %v", err)
	}

	members, err := adp.MembersForRoom(roomMain)
	if err != nil || len(members) != 2 {
		t.Fatalf("MembersForRoom expected 2, got %d (%v)", len(members), err)
	}

	if err = adp.MemberUpdateRole(roomMain, uidBob, types.RoleAdmin); err != nil {
		t.Fatal("MemberUpdateRole failed:", err)
	}
	got, _ := adp.MemberGet(roomMain, uidBob)
	if got.Role != types.RoleAdmin {
		t.Errorf("role not updated, got %s", got.Role)
	}

	if err = adp.MemberUpdateRole(roomMain, types.Uid(404), types.RoleAdmin); err != types.ErrNotFound {
		t.Errorf("expected not found for a non-member, got %v", err)
	}

	mine, err := adp.MembersForUser(uidBob)
	if err != nil || len(mine) != 1 || mine[0].Room != roomMain {
		t.Errorf("MembersForUser failed: %d, %v", len(mine), err)
	}
}

func TestDMRooms(t *testing.T) {
	room := newRoom(types.Uid(2002), uidAlice, types.RoomKindDM, false)
	ch := newChannel(types.Uid(3003), room.Uid(), "dm")
	if err := adp.RoomCreateDM(room, ch, uidAlice, uidBob); err != nil {
		t.Fatal("RoomCreateDM failed:", err)
	}

	// Lookup must work regardless of argument order.
	for _, pair := range [][2]types.Uid{{uidAlice, uidBob}, {uidBob, uidAlice}} {
		got, err := adp.RoomGetDM(pair[0], pair[1])
		if err != nil || got == nil || got.Uid() != room.Uid() {
			t.Errorf("RoomGetDM(%v) failed: %v, %v", pair, got, err)
		}
	}

	if got, err := adp.RoomGetDM(uidAlice, uidCarol); err != nil || got != nil {
		t.Errorf("no DM exists between alice and carol, got (%v, %v)", got, err)
	}

	// DM rooms never appear in the public listing.
	public, _ := adp.RoomsPublic(true)
	for _, r := range public {
		if r.Kind == types.RoomKindDM {
			t.Error("DM room leaked into the public listing")
		}
	}
}

func TestMessages(t *testing.T) {
	save := func(seq int64, from types.Uid, content string) {
		t.Helper()
		msg := &types.Message{
			SeqId:     seq,
			CreatedAt: types.TimeNow(),
			Channel:   chGeneral,
			From:      from,
			Content:   content,
			Type:      types.MessageText,
		}
		if err := adp.MessageSave(msg); err != nil {
			t.Fatal("MessageSave failed:", err)
		}
	}
	save(1, uidAlice, "first")
	save(2, uidBob, "second")
	save(3, uidAlice, "third")

	msgs, err := adp.MessagesForChannel(chGeneral, 0, 10)
	if err != nil || len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d (%v)", len(msgs), err)
	}
	if msgs[0].SeqId != 1 || msgs[2].SeqId != 3 {
		t.Errorf("messages out of seq order: %d..%d", msgs[0].SeqId, msgs[2].SeqId)
	}

	if msgs, _ = adp.MessagesForChannel(chGeneral, 1, 1); len(msgs) != 1 || msgs[0].SeqId != 2 {
		t.Errorf("since/limit not honored: %+v", msgs)
	}

	if err = adp.MessageUpdate(chGeneral, 2, "second, edited", types.TimeNow()); err != nil {
		t.Fatal("MessageUpdate failed:", err)
	}
	got, _ := adp.MessageGet(chGeneral, 2)
	if got.Content != "second, edited" || got.EditedAt == nil {
		t.Errorf("edit not applied: %+v", got)
	}

	if err = adp.MessageUpdate(chGeneral, 404, "x", types.TimeNow()); err != types.ErrNotFound {
		t.Errorf("expected not found for a missing message, got %v", err)
	}

	// Bob has read nothing; his own message must not count as unread for him.
	count, err := adp.MessageCountSince(chGeneral, 0, uidBob)
	if err != nil || count != 2 {
		t.Errorf("expected 2 unread for bob, got %d (%v)", count, err)
	}

	last, err := adp.MessageLastSeq(chGeneral)
	if err != nil || last != 3 {
		t.Errorf("expected last seq 3, got %d (%v)", last, err)
	}
	if last, _ = adp.MessageLastSeq(chRandom); last != 0 {
		t.Errorf("empty channel must report 0, got %d", last)
	}
}

func TestReactions(t *testing.T) {
	action, err := adp.ReactionToggle(1, uidBob, "👍", "emoji")
	if err != nil || action != "added" {
		t.Fatalf("first toggle: %q, %v", action, err)
	}
	if action, _ = adp.ReactionToggle(1, uidAlice, "👍", "emoji"); action != "added" {
		t.Errorf("second user toggle: %q", action)
	}
	if action, _ = adp.ReactionToggle(1, uidBob, "👍", "emoji"); action != "removed" {
		t.Errorf("repeat toggle must remove: %q", action)
	}

	reactions, err := adp.ReactionsForMessages([]int64{1, 2})
	if err != nil || len(reactions) != 1 {
		t.Fatalf("expected 1 reaction left, got %d (%v)", len(reactions), err)
	}
	if reactions[0].User != uidAlice || reactions[0].Emoji != "👍" {
		t.Errorf("unexpected reaction row: %+v", reactions[0])
	}

	// Deleting the message cascades its reactions.
	if err = adp.MessageDelete(chGeneral, 1); err != nil {
		t.Fatal("MessageDelete failed:", err)
	}
	if reactions, _ = adp.ReactionsForMessages([]int64{1}); len(reactions) != 0 {
		t.Errorf("reactions survived message deletion: %d", len(reactions))
	}
}

func TestReadMarkers(t *testing.T) {
	marker := &types.ReadMarker{User: uidBob, Channel: chGeneral, LastReadSeq: 2, ReadAt: types.TimeNow()}
	if err := adp.MarkerUpsert(marker); err != nil {
		t.Fatal("MarkerUpsert failed:", err)
	}

	// Second upsert updates in place.
	marker.LastReadSeq = 3
	marker.ReadAt = types.TimeNow()
	if err := adp.MarkerUpsert(marker); err != nil {
		t.Fatal("MarkerUpsert update failed:", err)
	}

	got, err := adp.MarkerGet(uidBob, chGeneral)
	if err != nil || got == nil || got.LastReadSeq != 3 {
		t.Errorf("MarkerGet failed: %+v, %v", got, err)
	}
	if got, err = adp.MarkerGet(uidCarol, chGeneral); err != nil || got != nil {
		t.Errorf("missing marker must be (nil, nil), got (%v, %v)", got, err)
	}
}

func TestRoomBans(t *testing.T) {
	ban := &types.RoomBan{Room: roomMain, User: uidBob, BannedBy: uidAlice, Reason: "spam", Purged: true}
	ban.SetUid(types.Uid(5001))
	ban.InitTimes()

	purged, err := adp.MemberBan(ban, true)
	if err != nil {
		t.Fatal("MemberBan failed:", err)
	}
	// Bob had one remaining message in the room, seq 2.
	if purged != 1 {
		t.Errorf("expected 1 purged message, got %d", purged)
	}

	if sub, _ := adp.MemberGet(roomMain, uidBob); sub != nil {
		t.Error("membership survived the ban")
	}
	got, err := adp.BanGet(roomMain, uidBob)
	if err != nil || got == nil || got.Reason != "spam" {
		t.Errorf("BanGet failed: %+v, %v", got, err)
	}
	if bans, _ := adp.BansForRoom(roomMain); len(bans) != 1 {
		t.Errorf("expected 1 ban in the room, got %d", len(bans))
	}

	if err = adp.BanDelete(roomMain, uidBob); err != nil {
		t.Fatal("BanDelete failed:", err)
	}
	if err = adp.BanDelete(roomMain, uidBob); err != types.ErrNotFound {
		t.Errorf("expected not found for a repeated unban, got %v", err)
	}
}

func TestGlobalBan(t *testing.T) {
	// Carol joins the room, then gets banned globally.
	sub := &types.Membership{Room: roomMain, User: uidCarol, Role: types.RoleMember}
	sub.SetUid(types.Uid(4002))
	sub.InitTimes()
	if err := adp.MemberAdd(sub); err != nil {
		t.Fatal("MemberAdd failed:", err)
	}

	rooms, err := adp.UserBanGlobal(uidCarol, uidAlice, "bot", "192.0.2.7", false)
	if err != nil {
		t.Fatal("UserBanGlobal failed:", err)
	}
	if len(rooms) != 1 || rooms[0] != roomMain {
		t.Errorf("expected the ban to cover the room, got %v", rooms)
	}

	got, _ := adp.UserGet(uidCarol)
	if !got.Banned || got.BanReason != "bot" || len(got.BannedIPs) != 1 {
		t.Errorf("global ban fields not set: %+v", got)
	}
	if sub, _ := adp.MemberGet(roomMain, uidCarol); sub != nil {
		t.Error("membership survived the global ban")
	}
	if banned, _ := adp.UserIsIPBanned("192.0.2.7"); !banned {
		t.Error("banned address not recognized")
	}
	if banned, _ := adp.UserIsIPBanned("198.51.100.1"); banned {
		t.Error("unrelated address reported as banned")
	}

	if err = adp.UserUnbanGlobal(uidCarol); err != nil {
		t.Fatal("UserUnbanGlobal failed:", err)
	}
	got, _ = adp.UserGet(uidCarol)
	if got.Banned {
		t.Error("ban flag survived the unban")
	}
	if ban, _ := adp.BanGet(roomMain, uidCarol); ban != nil {
		t.Error("room ban survived the global unban")
	}
}

func TestTracks(t *testing.T) {
	track := &types.Track{User: uidAlice, Title: "Prelude", Artist: "Bach", FileURL: "/v0/file/s/abc"}
	track.SetUid(types.Uid(6001))
	track.InitTimes()
	if err := adp.TrackAdd(track); err != nil {
		t.Fatal("TrackAdd failed:", err)
	}

	tracks, err := adp.TracksForUser(uidAlice)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d (%v)", len(tracks), err)
	}
	if diff := cmp.Diff(track, &tracks[0], ignoreHidden); diff != "" {
		t.Errorf("track record mismatch (-want +got):\n%s", diff)
	}

	// Only the owner may delete.
	if err = adp.TrackDelete(track.Uid(), uidBob); err != types.ErrNotFound {
		t.Errorf("expected not found for a foreign delete, got %v", err)
	}
	if err = adp.TrackDelete(track.Uid(), uidAlice); err != nil {
		t.Fatal("TrackDelete failed:", err)
	}
}

func TestFileDefs(t *testing.T) {
	fd := &types.FileDef{User: uidAlice, Status: types.UploadStarted, MimeType: "image/png", Location: "uploads/x"}
	fd.SetUid(types.Uid(7001))
	fd.InitTimes()
	if err := adp.FileStartUpload(fd); err != nil {
		t.Fatal("FileStartUpload failed:", err)
	}

	got, err := adp.FileFinishUpload(fd.Uid(), types.UploadCompleted, 2048)
	if err != nil || got == nil {
		t.Fatal("FileFinishUpload failed:", err)
	}
	if got.Status != types.UploadCompleted || got.Size != 2048 {
		t.Errorf("finish not applied: %+v", got)
	}

	if err = adp.FileDelete(fd.Uid()); err != nil {
		t.Fatal("FileDelete failed:", err)
	}
	if got, _ = adp.FileGet(fd.Uid()); got != nil {
		t.Error("file record survived deletion")
	}
}

func TestCascadingDeletes(t *testing.T) {
	// Deleting the room takes channels, messages, memberships and markers.
	if err := adp.RoomDelete(roomMain); err != nil {
		t.Fatal("RoomDelete failed:", err)
	}
	if ch, _ := adp.ChannelGet(chGeneral); ch != nil {
		t.Error("channel survived room deletion")
	}
	if msg, _ := adp.MessageGet(chGeneral, 3); msg != nil {
		t.Error("message survived room deletion")
	}
	if marker, _ := adp.MarkerGet(uidBob, chGeneral); marker != nil {
		t.Error("read marker survived room deletion")
	}

	if err := adp.UserDelete(uidCarol); err != nil {
		t.Fatal("UserDelete failed:", err)
	}
	if got, _ := adp.UserGet(uidCarol); got != nil {
		t.Error("user record survived deletion")
	}
}
