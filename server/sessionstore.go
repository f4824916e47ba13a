/******************************************************************************
 *
 *  Description :
 *
 *    Management of the active session list.
 *
 *****************************************************************************/

package main

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/nestwire/nestwire/server/store/types"
)

// SessionStore holds live sessions, keyed by session id.
type SessionStore struct {
	lock sync.Mutex

	// All sessions indexed by session ID.
	sessCache map[string]*Session
}

// NewSession creates a new session and saves it to the session store.
func (ss *SessionStore) NewSession(ws *websocket.Conn, remoteAddr string) *Session {
	s := &Session{
		ws:         ws,
		remoteAddr: remoteAddr,
		sid:        uuid.NewString(),
		send:       make(chan any, sendQueueLimit),
		stop:       make(chan any, 1),
		subs:       make(map[string]struct{}),
		limiter:    rate.NewLimiter(rate.Limit(requestRateLimit), requestRateBurst),
		lastAction: types.TimeNow(),
	}

	ss.lock.Lock()
	ss.sessCache[s.sid] = s
	ss.lock.Unlock()

	statsInc("LiveSessions", 1)
	statsInc("TotalSessions", 1)

	return s
}

// Get fetches a session from the store by session ID.
func (ss *SessionStore) Get(sid string) *Session {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	return ss.sessCache[sid]
}

// Delete removes session from the store.
func (ss *SessionStore) Delete(s *Session) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if _, ok := ss.sessCache[s.sid]; ok {
		delete(ss.sessCache, s.sid)
		statsInc("LiveSessions", -1)
	}
}

// Range calls given function for all sessions. It stops if the function
// returns false.
func (ss *SessionStore) Range(f func(sid string, s *Session) bool) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	for sid, s := range ss.sessCache {
		if !f(sid, s) {
			break
		}
	}
}

// CountForUser returns the number of live sessions authenticated as the
// given user.
func (ss *SessionStore) CountForUser(uid types.Uid) int {
	count := 0
	ss.Range(func(_ string, s *Session) bool {
		if s.uid == uid {
			count++
		}
		return true
	})
	return count
}

// IPsForUser returns the remote addresses of the user's live sessions.
func (ss *SessionStore) IPsForUser(uid types.Uid) []string {
	var addrs []string
	seen := map[string]struct{}{}
	ss.Range(func(_ string, s *Session) bool {
		if s.uid == uid {
			if _, ok := seen[s.remoteAddr]; !ok {
				seen[s.remoteAddr] = struct{}{}
				addrs = append(addrs, s.remoteAddr)
			}
		}
		return true
	})
	return addrs
}

// EvictUser pushes a redirect event to every session of the given user and
// terminates those sessions. Used when the user is banned server-wide.
func (ss *SessionStore) EvictUser(uid types.Uid, reason string) {
	evt := EvtMsg(topicUser(uid), evtForceRedirect, types.TimeNow(),
		&EvtForceRedirect{Reason: reason})

	var evicted []*Session
	ss.Range(func(_ string, s *Session) bool {
		if s.uid == uid {
			evicted = append(evicted, s)
		}
		return true
	})

	for _, s := range evicted {
		s.queueOut(evt)
		select {
		case s.stop <- nil:
		default:
		}
	}
}

// Shutdown terminates sessionStore. No need to clean up.
func (ss *SessionStore) Shutdown() {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	shutdown := &ServerComMessage{Ctrl: &MsgServerCtrl{
		Code:      http.StatusServiceUnavailable,
		Text:      "server shutdown",
		Timestamp: types.TimeNow()}}
	for _, s := range ss.sessCache {
		select {
		case s.stop <- shutdown:
		default:
		}
	}
}

// NewSessionStore initializes a session store.
func NewSessionStore() *SessionStore {
	ss := &SessionStore{
		sessCache: make(map[string]*Session),
	}

	statsRegisterInt("LiveSessions")
	statsRegisterInt("TotalSessions")

	return ss
}
