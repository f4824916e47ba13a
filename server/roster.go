/******************************************************************************
 *
 *  Description :
 *
 *    Membership and moderation engine: room and channel lifecycle, joining
 *    and leaving, role changes, kicks, bans and server-wide bans.
 *
 *****************************************************************************/

package main

import (
	"time"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

// Name of the default channel of a newly created room.
const defaultChannelName = "general"

// Roster manages room membership and moderation state.
type Roster struct {
	store    *store.Store
	deliver  Deliverer
	sessions *SessionStore
	receipts *Receipts
}

func newRoster(s *store.Store, deliver Deliverer, sessions *SessionStore, receipts *Receipts) *Roster {
	return &Roster{store: s, deliver: deliver, sessions: sessions, receipts: receipts}
}

// membership loads the caller's membership record or denies access.
func (r *Roster) membership(user, room types.Uid) (*types.Membership, error) {
	m, err := r.store.Members.Get(room, user)
	if err == types.ErrNotFound {
		return nil, types.ErrPermissionDenied
	}
	return m, err
}

// requireRole loads the membership and checks the role predicate.
func (r *Roster) requireRole(user, room types.Uid, pred func(types.Role) bool) (*types.Membership, error) {
	m, err := r.membership(user, room)
	if err != nil {
		return nil, err
	}
	if !pred(m.Role) {
		return nil, types.ErrPermissionDenied
	}
	return m, nil
}

// channelRoom resolves a channel to its parent room.
func (r *Roster) channelRoom(ch types.Uid) (*types.Channel, *types.Room, error) {
	channel, err := r.store.Channels.Get(ch)
	if err != nil {
		return nil, nil, err
	}
	room, err := r.store.Rooms.Get(channel.Room)
	if err != nil {
		return nil, nil, err
	}
	return channel, room, nil
}

// CanRead reports whether the user may read and post to the channel.
func (r *Roster) CanRead(user, ch types.Uid) error {
	channel, err := r.store.Channels.Get(ch)
	if err != nil {
		return err
	}
	_, err = r.membership(user, channel.Room)
	return err
}

// CanPost reports whether the user may post to the channel. In broadcast
// rooms only moderators may post.
func (r *Roster) CanPost(user, ch types.Uid) error {
	_, room, err := r.channelRoom(ch)
	if err != nil {
		return err
	}

	m, err := r.membership(user, room.Uid())
	if err != nil {
		return err
	}
	if room.Kind == types.RoomKindBroadcast && !m.Role.IsModerator() {
		return types.ErrPermissionDenied
	}
	return nil
}

// CreateRoom creates a room with its default channel. The creator becomes
// the owner.
func (r *Roster) CreateRoom(owner types.Uid, name string, kind types.RoomKind, public bool) (*types.Room, *types.Channel, error) {
	if name == "" {
		return nil, nil, types.ErrMalformed
	}

	room := &types.Room{
		Name:   name,
		Kind:   kind,
		Public: public,
		Owner:  owner,
	}
	ch := &types.Channel{Name: defaultChannelName}
	room, err := r.store.Rooms.Create(room, ch)
	if err != nil {
		return nil, nil, err
	}
	return room, ch, nil
}

// RenameRoom changes the name of the room. Moderators only.
func (r *Roster) RenameRoom(actor, room types.Uid, name string) error {
	if _, err := r.requireRole(actor, room, types.Role.IsModerator); err != nil {
		return err
	}
	return r.store.Rooms.Update(room, map[string]any{"name": name})
}

// DeleteRoom deletes the room with all its channels and messages. Owner only.
func (r *Roster) DeleteRoom(actor, room types.Uid) error {
	rec, err := r.store.Rooms.Get(room)
	if err != nil {
		return err
	}
	if rec.Owner != actor {
		return types.ErrPermissionDenied
	}
	if rec.Kind == types.RoomKindDM {
		return types.ErrPermissionDenied
	}

	members, err := r.store.Members.ForRoom(room)
	if err != nil {
		return err
	}

	if err = r.store.Rooms.Delete(room); err != nil {
		return err
	}

	now := types.TimeNow()
	payload := &EvtServerRemoved{Room: room.String()}
	for _, m := range members {
		r.deliver.Publish(topicUser(m.User), EvtMsg(topicUser(m.User), evtServerRemoved, now, payload))
	}
	return nil
}

// GenerateInvite creates and stores a fresh invite token for the room.
// Moderators only.
func (r *Roster) GenerateInvite(actor, room types.Uid) (string, error) {
	if _, err := r.requireRole(actor, room, types.Role.IsModerator); err != nil {
		return "", err
	}

	token := genInviteToken()
	if err := r.store.Rooms.Update(room, map[string]any{"invitetoken": token}); err != nil {
		return "", err
	}
	return token, nil
}

// Join adds the user to a public room as a regular member.
func (r *Roster) Join(user, room types.Uid) (*types.Room, error) {
	rec, err := r.store.Rooms.Get(room)
	if err != nil {
		return nil, err
	}
	if !rec.Public || rec.Kind == types.RoomKindDM {
		return nil, types.ErrPermissionDenied
	}
	if err = r.checkBanned(room, user); err != nil {
		return nil, err
	}

	if _, err = r.store.Members.Add(room, user, types.RoleMember); err != nil {
		if err == types.ErrDuplicate {
			// Already a member: not an error.
			return rec, nil
		}
		return nil, err
	}
	return rec, nil
}

// JoinByInvite adds the user to the room matching the invite token.
func (r *Roster) JoinByInvite(user types.Uid, token string) (*types.Room, error) {
	rec, err := r.store.Rooms.GetByInvite(token)
	if err != nil {
		return nil, err
	}
	if err = r.checkBanned(rec.Uid(), user); err != nil {
		return nil, err
	}

	if _, err = r.store.Members.Add(rec.Uid(), user, types.RoleMember); err != nil && err != types.ErrDuplicate {
		return nil, err
	}
	return rec, nil
}

// checkBanned rejects users with an active room ban.
func (r *Roster) checkBanned(room, user types.Uid) error {
	if _, err := r.store.Bans.Get(room, user); err == nil {
		return types.ErrPermissionDenied
	} else if err != types.ErrNotFound {
		return err
	}
	return nil
}

// Leave removes the user from the room. The owner cannot leave, only delete.
func (r *Roster) Leave(user, room types.Uid) error {
	rec, err := r.store.Rooms.Get(room)
	if err != nil {
		return err
	}
	if rec.Owner == user || rec.Kind == types.RoomKindDM {
		return types.ErrPermissionDenied
	}
	if _, err = r.membership(user, room); err != nil {
		return err
	}

	if err = r.store.Members.Delete(room, user); err != nil {
		return err
	}
	r.notifyMemberRemoved(room, user, "leave")
	return nil
}

// StartDM finds or creates the direct message room between two users.
func (r *Roster) StartDM(user, peer types.Uid) (*types.Room, *types.Channel, bool, error) {
	if user == peer {
		return nil, nil, false, types.ErrMalformed
	}
	if _, err := r.store.Users.Get(peer); err != nil {
		return nil, nil, false, err
	}

	room, err := r.store.Rooms.GetDM(user, peer)
	if err == nil {
		chans, err := r.store.Channels.ForRoom(room.Uid())
		if err != nil {
			return nil, nil, false, err
		}
		if len(chans) == 0 {
			return nil, nil, false, types.ErrInternal
		}
		return room, &chans[0], false, nil
	}
	if err != types.ErrNotFound {
		return nil, nil, false, err
	}

	room, ch, err := r.store.Rooms.CreateDM(user, peer)
	if err != nil {
		return nil, nil, false, err
	}

	r.deliver.Publish(topicUser(peer), EvtMsg(topicUser(peer), evtNewDMCreated, types.TimeNow(),
		&EvtNewDM{
			Room:    room.Uid().String(),
			Channel: ch.Uid().ChannelId(),
			With:    user.UserId()}))

	return room, ch, true, nil
}

// DeleteDM removes a direct message conversation for both parties.
func (r *Roster) DeleteDM(user, room types.Uid) error {
	rec, err := r.store.Rooms.Get(room)
	if err != nil {
		return err
	}
	if rec.Kind != types.RoomKindDM {
		return types.ErrMalformed
	}
	if _, err = r.membership(user, room); err != nil {
		return err
	}
	return r.store.Rooms.Delete(room)
}

// AddChannel creates a channel in the room. Moderators only.
func (r *Roster) AddChannel(actor, room types.Uid, name, description, icon string) (*types.Channel, error) {
	if _, err := r.requireRole(actor, room, types.Role.IsModerator); err != nil {
		return nil, err
	}
	rec, err := r.store.Rooms.Get(room)
	if err != nil {
		return nil, err
	}
	if rec.Kind == types.RoomKindDM {
		return nil, types.ErrPermissionDenied
	}

	return r.store.Channels.Create(&types.Channel{
		Room:        room,
		Name:        name,
		Description: description,
		IconEmoji:   icon,
	})
}

// EditChannel updates channel attributes. Moderators only. Empty values are
// left unchanged.
func (r *Roster) EditChannel(actor, ch types.Uid, name, description, icon string) error {
	channel, err := r.store.Channels.Get(ch)
	if err != nil {
		return err
	}
	if _, err = r.requireRole(actor, channel.Room, types.Role.IsModerator); err != nil {
		return err
	}

	update := map[string]any{}
	if name != "" {
		update["name"] = name
	}
	if description != "" {
		update["description"] = description
	}
	if icon != "" {
		update["iconemoji"] = icon
	}
	if len(update) == 0 {
		return nil
	}
	return r.store.Channels.Update(ch, update)
}

// DeleteChannel deletes the channel with its messages. Moderators only.
// The last remaining channel of a room cannot be deleted.
func (r *Roster) DeleteChannel(actor, ch types.Uid) error {
	channel, err := r.store.Channels.Get(ch)
	if err != nil {
		return err
	}
	if _, err = r.requireRole(actor, channel.Room, types.Role.IsModerator); err != nil {
		return err
	}

	chans, err := r.store.Channels.ForRoom(channel.Room)
	if err != nil {
		return err
	}
	if len(chans) <= 1 {
		return types.ErrPermissionDenied
	}
	return r.store.Channels.Delete(ch)
}

// Promote raises a member to admin. Owner, admin or superuser.
func (r *Roster) Promote(actor, room, target types.Uid) error {
	return r.setRole(actor, room, target, types.RoleAdmin)
}

// Demote lowers an admin back to regular member. Owner or superuser only.
func (r *Roster) Demote(actor, room, target types.Uid) error {
	return r.setRole(actor, room, target, types.RoleMember)
}

func (r *Roster) setRole(actor, room, target types.Uid, role types.Role) error {
	if target == actor {
		return types.ErrPermissionDenied
	}
	rank, err := r.actorRank(actor, room)
	if err != nil {
		return err
	}
	if role == types.RoleMember && rank != types.RoleOwner {
		return types.ErrPermissionDenied
	}

	tm, err := r.membership(target, room)
	if err == types.ErrPermissionDenied {
		return types.ErrNotFound
	} else if err != nil {
		return err
	}
	if tm.Role == types.RoleOwner {
		return types.ErrPermissionDenied
	}
	if role == types.RoleMember && tm.Role != types.RoleAdmin {
		return types.ErrMalformed
	}
	return r.store.Members.UpdateRole(room, target, role)
}

// Kick removes a member from the room. Moderators only; the target must
// rank below the actor.
func (r *Roster) Kick(actor, room, target types.Uid) error {
	if err := r.checkModerationTarget(actor, room, target); err != nil {
		return err
	}

	if err := r.store.Members.Delete(room, target); err != nil {
		return err
	}
	r.notifyMemberRemoved(room, target, "kick")
	r.redirectFromRoom(room, target, "kick")
	return nil
}

// Ban converts the target's membership into a room ban. Optionally purges
// the target's messages in the room. Moderators only.
func (r *Roster) Ban(actor, room, target types.Uid, reason string, purge bool) error {
	if err := r.checkModerationTarget(actor, room, target); err != nil {
		return err
	}

	ban := &types.RoomBan{
		Room:     room,
		User:     target,
		BannedBy: actor,
		Reason:   reason,
	}
	purged, err := r.store.Bans.Ban(ban, purge)
	if err != nil {
		return err
	}

	r.notifyMemberRemoved(room, target, "ban")
	r.redirectFromRoom(room, target, reason)
	if purged > 0 {
		r.notifyBulkDeleted(room, target, purged)
	}
	return nil
}

// Unban lifts a room ban. Moderators only. The user may rejoin afterwards.
func (r *Roster) Unban(actor, room, target types.Uid) error {
	if _, err := r.actorRank(actor, room); err != nil {
		return err
	}
	if _, err := r.store.Bans.Get(room, target); err != nil {
		return err
	}
	return r.store.Bans.Delete(room, target)
}

// PurgeMessages deletes all of the target's messages in the room without
// changing membership. Moderators only.
func (r *Roster) PurgeMessages(actor, room, target types.Uid) error {
	if _, err := r.actorRank(actor, room); err != nil {
		return err
	}

	purged, err := r.store.Messages.DeleteForUser(room, target)
	if err != nil {
		return err
	}
	if purged > 0 {
		r.notifyBulkDeleted(room, target, purged)
	}
	return nil
}

// actorRank resolves the rank the actor moderates with in the room: their
// membership role when it grants moderation rights, otherwise owner rank
// for superusers, who may moderate any room without being a member.
func (r *Roster) actorRank(actor, room types.Uid) (types.Role, error) {
	m, err := r.membership(actor, room)
	if err == nil && m.Role.IsModerator() {
		return m.Role, nil
	}
	if err != nil && err != types.ErrPermissionDenied {
		return types.RoleNone, err
	}

	root, err := r.isRoot(actor)
	if err != nil {
		return types.RoleNone, err
	}
	if root {
		return types.RoleOwner, nil
	}
	return types.RoleNone, types.ErrPermissionDenied
}

// checkModerationTarget verifies that the actor may moderate the target:
// the actor ranks as a moderator and outranks the target.
func (r *Roster) checkModerationTarget(actor, room, target types.Uid) error {
	if actor == target {
		return types.ErrPermissionDenied
	}
	rank, err := r.actorRank(actor, room)
	if err != nil {
		return err
	}
	tm, err := r.membership(target, room)
	if err == types.ErrPermissionDenied {
		return types.ErrNotFound
	} else if err != nil {
		return err
	}

	if tm.Role == types.RoleOwner {
		return types.ErrPermissionDenied
	}
	if tm.Role == types.RoleAdmin && rank != types.RoleOwner {
		return types.ErrPermissionDenied
	}
	return nil
}

// BanGlobal bans the user from the entire service: all sessions are
// evicted, the account is suspended and memberships become room bans.
// Root only.
func (r *Roster) BanGlobal(actor, target types.Uid, reason string, purge bool) error {
	if err := r.requireRoot(actor); err != nil {
		return err
	}
	if actor == target {
		return types.ErrPermissionDenied
	}

	addrs := r.sessions.IPsForUser(target)
	addr := ""
	if len(addrs) > 0 {
		addr = addrs[0]
	} else if u, err := r.store.Users.Get(target); err == nil {
		// Target is offline: ban the address it last logged in from.
		addr = u.LastIP
	}

	rooms, err := r.store.Users.BanGlobal(target, actor, reason, addr, purge)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		r.notifyMemberRemoved(room, target, "ban")
	}
	r.sessions.EvictUser(target, reason)

	logs.Info.Println("roster: user banned globally", target.UserId(), "by", actor.UserId())
	return nil
}

// UnbanGlobal restores a suspended account. Root only. Room bans created
// by the global ban remain and must be lifted individually.
func (r *Roster) UnbanGlobal(actor, target types.Uid) error {
	if err := r.requireRoot(actor); err != nil {
		return err
	}
	return r.store.Users.UnbanGlobal(target)
}

func (r *Roster) requireRoot(actor types.Uid) error {
	root, err := r.isRoot(actor)
	if err != nil {
		return err
	}
	if !root {
		return types.ErrPermissionDenied
	}
	return nil
}

func (r *Roster) isRoot(user types.Uid) (bool, error) {
	u, err := r.store.Users.Get(user)
	if err == types.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Superuser, nil
}

// redirectFromRoom tells the target's live sessions to detach from the
// room's channels.
func (r *Roster) redirectFromRoom(room, target types.Uid, reason string) {
	topic := topicUser(target)
	r.deliver.Publish(topic, EvtMsg(topic, evtForceRedirect, types.TimeNow(),
		&EvtForceRedirect{Room: room.String(), Reason: reason}))
}

// notifyMemberRemoved delivers the member_removed event to the room's
// channels and to the removed user.
func (r *Roster) notifyMemberRemoved(room, user types.Uid, cause string) {
	now := types.TimeNow()
	payload := &EvtMemberRemoved{Room: room.String(), User: user.UserId(), Cause: cause}

	chans, err := r.store.Channels.ForRoom(room)
	if err != nil {
		logs.Err.Println("roster: cannot load channels for", room.String(), err)
	}
	for _, ch := range chans {
		topic := topicChannel(ch.Uid())
		r.deliver.Publish(topic, EvtMsg(topic, evtMemberRemoved, now, payload))
	}
	r.deliver.Publish(topicUser(user), EvtMsg(topicUser(user), evtMemberRemoved, now, payload))
}

// notifyBulkDeleted delivers the bulk_messages_deleted event to the room's
// channels.
func (r *Roster) notifyBulkDeleted(room, user types.Uid, count int64) {
	now := types.TimeNow()
	payload := &EvtBulkMessagesDeleted{Room: room.String(), User: user.UserId(), Count: count}

	chans, err := r.store.Channels.ForRoom(room)
	if err != nil {
		logs.Err.Println("roster: cannot load channels for", room.String(), err)
	}
	for _, ch := range chans {
		topic := topicChannel(ch.Uid())
		r.deliver.Publish(topic, EvtMsg(topic, evtBulkMessagesDeleted, now, payload))
	}
}

// DashboardChannel is one channel of a room in the dashboard payload.
type DashboardChannel struct {
	Channel     string `json:"channel"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconEmoji   string `json:"icon,omitempty"`
	Unread      int    `json:"unread"`
}

// DashboardRoom is one room with its channels in the dashboard payload.
type DashboardRoom struct {
	Room     string             `json:"room"`
	Name     string             `json:"name"`
	Kind     string             `json:"kind"`
	Public   bool               `json:"public"`
	Avatar   string             `json:"avatar,omitempty"`
	Role     string             `json:"role"`
	Channels []DashboardChannel `json:"channels"`
}

// DashboardDM is one direct message conversation in the dashboard payload.
type DashboardDM struct {
	Room    string      `json:"room"`
	Channel string      `json:"channel"`
	With    *MemberInfo `json:"with"`
	Unread  int         `json:"unread"`
}

// Dashboard is the reply to {get what="dashboard"}.
type Dashboard struct {
	Rooms []DashboardRoom `json:"rooms"`
	DMs   []DashboardDM   `json:"dms"`
}

// MemberInfo is the public profile of a user in query replies.
type MemberInfo struct {
	User     string     `json:"user"`
	Username string     `json:"username"`
	Public   string     `json:"public"`
	Avatar   string     `json:"avatar,omitempty"`
	Role     string     `json:"role,omitempty"`
	Status   string     `json:"status"`
	LastSeen *time.Time `json:"lastseen,omitempty"`
}

// ExploreRoom is one public room in the explore payload.
type ExploreRoom struct {
	Room   string `json:"room"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Avatar string `json:"avatar,omitempty"`
}

// Explore is the reply to {get what="explore"}.
type Explore struct {
	Rooms []ExploreRoom `json:"rooms"`
	Users []MemberInfo  `json:"users"`
}

// Dashboard assembles the user's rooms, direct conversations and unread
// counts.
func (r *Roster) Dashboard(user types.Uid) (*Dashboard, error) {
	memberships, err := r.store.Members.ForUser(user)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{Rooms: []DashboardRoom{}, DMs: []DashboardDM{}}
	for _, m := range memberships {
		room, err := r.store.Rooms.Get(m.Room)
		if err != nil {
			logs.Warn.Println("roster: dangling membership", m.Room.String(), err)
			continue
		}
		chans, err := r.store.Channels.ForRoom(m.Room)
		if err != nil {
			return nil, err
		}

		if room.Kind == types.RoomKindDM {
			dm, err := r.dashboardDM(user, room, chans)
			if err != nil {
				return nil, err
			}
			if dm != nil {
				dash.DMs = append(dash.DMs, *dm)
			}
			continue
		}

		dr := DashboardRoom{
			Room:     room.Uid().String(),
			Name:     room.Name,
			Kind:     string(room.Kind),
			Public:   room.Public,
			Avatar:   room.Avatar,
			Role:     string(m.Role),
			Channels: []DashboardChannel{},
		}
		for _, ch := range chans {
			unread, err := r.receipts.UnreadCount(user, ch.Uid())
			if err != nil {
				return nil, err
			}
			dr.Channels = append(dr.Channels, DashboardChannel{
				Channel:     ch.Uid().ChannelId(),
				Name:        ch.Name,
				Description: ch.Description,
				IconEmoji:   ch.IconEmoji,
				Unread:      unread,
			})
		}
		dash.Rooms = append(dash.Rooms, dr)
	}
	return dash, nil
}

func (r *Roster) dashboardDM(user types.Uid, room *types.Room, chans []types.Channel) (*DashboardDM, error) {
	members, err := r.store.Members.ForRoom(room.Uid())
	if err != nil {
		return nil, err
	}

	var peer types.Uid
	for _, m := range members {
		if m.User != user {
			peer = m.User
			break
		}
	}
	if peer.IsZero() || len(chans) == 0 {
		// Conversation without a peer or a channel, nothing to show.
		return nil, nil
	}

	peerUser, err := r.store.Users.Get(peer)
	if err != nil {
		return nil, err
	}
	unread, err := r.receipts.UnreadCount(user, chans[0].Uid())
	if err != nil {
		return nil, err
	}

	return &DashboardDM{
		Room:    room.Uid().String(),
		Channel: chans[0].Uid().ChannelId(),
		With:    memberInfo(peerUser, ""),
		Unread:  unread,
	}, nil
}

// Explore returns public rooms and, when a query is given, matching users.
func (r *Roster) Explore(user types.Uid, query string) (*Explore, error) {
	all := false
	if u, err := r.store.Users.Get(user); err == nil {
		all = u.Superuser
	}

	rooms, err := r.store.Rooms.Public(all)
	if err != nil {
		return nil, err
	}

	res := &Explore{Rooms: []ExploreRoom{}, Users: []MemberInfo{}}
	for _, room := range rooms {
		res.Rooms = append(res.Rooms, ExploreRoom{
			Room:   room.Uid().String(),
			Name:   room.Name,
			Kind:   string(room.Kind),
			Avatar: room.Avatar,
		})
	}

	if query != "" {
		users, err := r.store.Users.Find(normalizeUsername(query), all)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if users[i].Uid() == user {
				continue
			}
			res.Users = append(res.Users, *memberInfo(&users[i], ""))
		}
	}
	return res, nil
}

// Members returns the member list of a room. Callers must be members
// themselves.
func (r *Roster) Members(user, room types.Uid) ([]MemberInfo, error) {
	if _, err := r.membership(user, room); err != nil {
		return nil, err
	}

	memberships, err := r.store.Members.ForRoom(room)
	if err != nil {
		return nil, err
	}

	ids := make([]types.Uid, 0, len(memberships))
	roles := make(map[types.Uid]types.Role, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.User)
		roles[m.User] = m.Role
	}

	users, err := r.store.Users.GetAll(ids...)
	if err != nil {
		return nil, err
	}

	infos := make([]MemberInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *memberInfo(&users[i], string(roles[users[i].Uid()])))
	}
	return infos, nil
}

// memberInfo converts a user record to its public profile. Status is
// masked for users who hide their presence.
func memberInfo(u *types.User, role string) *MemberInfo {
	info := &MemberInfo{
		User:     u.Uid().UserId(),
		Username: u.Username,
		Public:   u.Public,
		Avatar:   u.Avatar,
		Role:     role,
		Status:   string(u.Status),
		LastSeen: u.LastSeen,
	}
	if u.HideStatus {
		info.Status = string(types.PresenceOffline)
		info.LastSeen = nil
	}
	return info
}
