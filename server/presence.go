/******************************************************************************
 *
 *  Description :
 *
 *    Presence engine: tracks live connections per user and announces
 *    status transitions.
 *
 *****************************************************************************/

package main

import (
	"sync"
	"time"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/types"
)

// Presence tracks connection counts per user and fans out status changes
// to the channels of the rooms the user is a member of.
type Presence struct {
	store   *store.Store
	deliver Deliverer

	mu sync.Mutex
	// Number of live sessions per user.
	conns map[types.Uid]int
}

func newPresence(s *store.Store, deliver Deliverer) *Presence {
	return &Presence{
		store:   s,
		deliver: deliver,
		conns:   make(map[types.Uid]int),
	}
}

// Connected registers a new authenticated session of the user. The first
// session brings the user online, or to stored hidden status when the user
// hides presence.
func (p *Presence) Connected(user types.Uid) {
	p.mu.Lock()
	p.conns[user]++
	first := p.conns[user] == 1
	p.mu.Unlock()

	if !first {
		return
	}

	u, err := p.store.Users.Get(user)
	if err != nil {
		logs.Err.Println("presence: cannot load user", user.UserId(), err)
		return
	}

	status := types.PresenceOnline
	if u.HideStatus {
		status = types.PresenceHidden
	}
	if err := p.store.Users.UpdatePresence(user, status, nil); err != nil {
		logs.Err.Println("presence: cannot save status", user.UserId(), err)
		return
	}
	if !u.HideStatus {
		p.announce(user, types.PresenceOnline, nil)
	}
}

// Disconnected unregisters a session of the user. The last session takes
// the user offline and records the last-seen time. Hidden users keep their
// stored hidden status and announce nothing.
func (p *Presence) Disconnected(user types.Uid) {
	p.mu.Lock()
	p.conns[user]--
	last := p.conns[user] <= 0
	if last {
		delete(p.conns, user)
	}
	p.mu.Unlock()

	if !last {
		return
	}

	u, err := p.store.Users.Get(user)
	if err != nil {
		logs.Err.Println("presence: cannot load user", user.UserId(), err)
		return
	}

	now := types.TimeNow()
	status := types.PresenceOffline
	if u.HideStatus {
		status = types.PresenceHidden
	}
	if err := p.store.Users.UpdatePresence(user, status, &now); err != nil {
		logs.Err.Println("presence: cannot save status", user.UserId(), err)
		return
	}
	if !u.HideStatus {
		p.announce(user, types.PresenceOffline, &now)
	}
}

// SetStatus applies an explicit presence preference change.
func (p *Presence) SetStatus(user types.Uid, what string) error {
	switch what {
	case "online", "away":
		u, err := p.store.Users.Get(user)
		if err != nil {
			return err
		}
		if u.HideStatus {
			// Hidden users stay hidden until they unhide.
			return nil
		}
		status := types.PresenceOnline
		if what == "away" {
			status = types.PresenceAway
		}
		if err := p.store.Users.UpdatePresence(user, status, nil); err != nil {
			return err
		}
		p.announce(user, status, nil)
		return nil

	case "hide":
		if err := p.store.Users.Update(user, map[string]any{"hidestatus": true}); err != nil {
			return err
		}
		if err := p.store.Users.UpdatePresence(user, types.PresenceHidden, nil); err != nil {
			return err
		}
		// Hidden users appear offline to everyone else.
		p.announce(user, types.PresenceOffline, nil)
		return nil

	case "unhide":
		if err := p.store.Users.Update(user, map[string]any{"hidestatus": false}); err != nil {
			return err
		}
		status := types.PresenceOffline
		if p.Online(user) {
			status = types.PresenceOnline
		}
		if err := p.store.Users.UpdatePresence(user, status, nil); err != nil {
			return err
		}
		p.announce(user, status, nil)
		return nil

	default:
		return types.ErrMalformed
	}
}

// Online reports whether the user has at least one live session.
func (p *Presence) Online(user types.Uid) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conns[user] > 0
}

// announce delivers the status change to every channel of every room the
// user is a member of. Only the rooms' members can observe the status.
func (p *Presence) announce(user types.Uid, status types.PresenceStatus, lastSeen *time.Time) {
	memberships, err := p.store.Members.ForUser(user)
	if err != nil {
		logs.Err.Println("presence: cannot load memberships of", user.UserId(), err)
		return
	}

	channelsByRoom := make(map[types.Uid][]types.Channel, len(memberships))
	for i := range memberships {
		room := memberships[i].Room
		chans, err := p.store.Channels.ForRoom(room)
		if err != nil {
			logs.Err.Println("presence: cannot load channels of", room.String(), err)
			continue
		}
		channelsByRoom[room] = chans
	}

	now := types.TimeNow()
	payload := &EvtPresence{User: user.UserId(), Status: string(status), LastSeen: lastSeen}
	for _, topic := range presenceTargets(memberships, channelsByRoom) {
		p.deliver.Publish(topic, EvtMsg(topic, evtPresenceUpdated, now, payload))
	}
}

// presenceTargets lists the channel topics a presence change of the user
// fans out to: every channel of every room the user belongs to.
func presenceTargets(memberships []types.Membership, channelsByRoom map[types.Uid][]types.Channel) []string {
	var topics []string
	for i := range memberships {
		for _, ch := range channelsByRoom[memberships[i].Room] {
			topics = append(topics, topicChannel(ch.Uid()))
		}
	}
	return topics
}
