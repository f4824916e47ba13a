package types

import (
	"testing"
	"time"
)

func TestUidStringRoundTrip(t *testing.T) {
	for _, uid := range []Uid{1, 12345, 0x7fffffffffffffff} {
		if got := ParseUid(uid.String()); got != uid {
			t.Errorf("ParseUid(%q) = %d, expected %d", uid.String(), got, uid)
		}
	}
	if !ParseUid("not a uid").IsZero() {
		t.Error("garbage must parse to a zero uid")
	}
	if !ParseUid("").IsZero() {
		t.Error("empty string must parse to a zero uid")
	}
}

func TestPrefixedIds(t *testing.T) {
	uid := Uid(98765)

	if got := ParseUserId(uid.UserId()); got != uid {
		t.Errorf("ParseUserId(%q) = %d, expected %d", uid.UserId(), got, uid)
	}
	if got := ParseChannelId(uid.ChannelId()); got != uid {
		t.Errorf("ParseChannelId(%q) = %d, expected %d", uid.ChannelId(), got, uid)
	}

	// Wrong or missing prefixes must not parse.
	if !ParseUserId(uid.ChannelId()).IsZero() {
		t.Error("a channel id must not parse as a user id")
	}
	if !ParseChannelId(uid.UserId()).IsZero() {
		t.Error("a user id must not parse as a channel id")
	}
	if !ParseUserId(uid.String()).IsZero() {
		t.Error("a bare uid must not parse as a user id")
	}
}

func TestObjHeader(t *testing.T) {
	var room Room
	room.SetUid(Uid(42))
	if room.Uid() != Uid(42) {
		t.Errorf("expected uid 42, got %d", room.Uid())
	}

	room.InitTimes()
	if room.CreatedAt.IsZero() || !room.CreatedAt.Equal(room.UpdatedAt) {
		t.Errorf("InitTimes produced %v / %v", room.CreatedAt, room.UpdatedAt)
	}

	// A pre-set creation time is preserved.
	was := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	other := Room{}
	other.CreatedAt = was
	other.InitTimes()
	if !other.CreatedAt.Equal(was) {
		t.Errorf("InitTimes must not overwrite CreatedAt, got %v", other.CreatedAt)
	}
}

func TestRoleModeration(t *testing.T) {
	cases := []struct {
		role Role
		mod  bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{RoleMember, false},
	}
	for _, tc := range cases {
		if got := tc.role.IsModerator(); got != tc.mod {
			t.Errorf("%s.IsModerator() = %v, expected %v", tc.role, got, tc.mod)
		}
	}
}
