/******************************************************************************
 *
 *  Description :
 *
 *    Main hub for managing topic subscriptions and routing events from
 *    the engines to the sessions attached to each topic.
 *
 *****************************************************************************/

package main

import (
	"sync"

	"github.com/nestwire/nestwire/server/logs"
)

// Deliverer routes a server message to everyone attached to a topic.
// Implemented by Hub; engines depend on the interface so tests can
// substitute a recorder.
type Deliverer interface {
	Publish(topic string, msg *ServerComMessage)
}

// Request to hub to subscribe session to topic.
type sessionJoin struct {
	// Routable name of the topic.
	topic string
	// Session to attach to topic.
	sess *Session
}

// Session wants to leave a topic, or all topics when topic is blank.
type sessionLeave struct {
	// Routable name of the topic. Empty means detach from everything.
	topic string
	// Session which initiated the request.
	sess *Session
}

// Topic is a routing endpoint: a channel feed or a per-user feed.
type Topic struct {
	// Routable name, like 'chnAbCd...' or 'usrAbCd...'.
	name string
	// Sessions attached to this topic.
	sessions map[*Session]struct{}
}

// Hub is the core structure which holds topics.
type Hub struct {
	// Topics must be indexed by name.
	topics *sync.Map

	// Channel for routing events to topics, buffered at 4096.
	route chan *ServerComMessage

	// Subscribe session to topic, possibly creating the topic, buffered at 256.
	join chan *sessionJoin

	// Detach session from topic(s), buffered at 256.
	leave chan *sessionLeave

	// Request to shutdown, unbuffered.
	shutdown chan chan<- bool
}

func (h *Hub) topicGet(name string) *Topic {
	if t, ok := h.topics.Load(name); ok {
		return t.(*Topic)
	}
	return nil
}

func newHub() *Hub {
	h := &Hub{
		topics: &sync.Map{},
		// This needs to be buffered - engines publish from request
		// handlers and must not block on fan-out.
		route:    make(chan *ServerComMessage, 4096),
		join:     make(chan *sessionJoin, 256),
		leave:    make(chan *sessionLeave, 256),
		shutdown: make(chan chan<- bool),
	}

	statsRegisterInt("LiveTopics")
	statsRegisterInt("TotalTopics")

	go h.run()

	return h
}

// Publish queues an event for delivery to the named topic. The event is
// dropped if the routing queue is full.
func (h *Hub) Publish(topic string, msg *ServerComMessage) {
	msg.rcptTo = topic
	select {
	case h.route <- msg:
	default:
		logs.Err.Println("hub: routing queue full, dropping event for", topic)
	}
}

// Subscribe attaches a session to the named topic.
func (h *Hub) Subscribe(topic string, sess *Session) {
	h.join <- &sessionJoin{topic: topic, sess: sess}
}

// Unsubscribe detaches a session from the named topic. An empty topic
// detaches the session from all topics.
func (h *Hub) Unsubscribe(topic string, sess *Session) {
	h.leave <- &sessionLeave{topic: topic, sess: sess}
}

func (h *Hub) run() {
	for {
		select {
		case join := <-h.join:
			t := h.topicGet(join.topic)
			if t == nil {
				t = &Topic{
					name:     join.topic,
					sessions: make(map[*Session]struct{}),
				}
				h.topics.Store(join.topic, t)
				statsInc("LiveTopics", 1)
				statsInc("TotalTopics", 1)
			}
			t.sessions[join.sess] = struct{}{}
			join.sess.addSub(join.topic)

		case leave := <-h.leave:
			if leave.topic != "" {
				h.detach(leave.topic, leave.sess)
				leave.sess.delSub(leave.topic)
				break
			}
			// Session is gone. Detach from everything it was attached to.
			for _, name := range leave.sess.getSubs() {
				h.detach(name, leave.sess)
			}
			leave.sess.clearSubs()

		case msg := <-h.route:
			t := h.topicGet(msg.rcptTo)
			if t == nil {
				// Nobody is attached, nothing to do.
				break
			}
			for sess := range t.sessions {
				if sess.sid == msg.skipSid {
					continue
				}
				if !sess.queueOut(msg) {
					logs.Warn.Println("hub: connection stale, detaching", sess.sid)
					h.detach(t.name, sess)
					sess.delSub(t.name)
				}
			}

		case done := <-h.shutdown:
			h.topics.Range(func(_, t any) bool {
				h.topics.Delete(t.(*Topic).name)
				return true
			})
			done <- true
			return
		}
	}
}

// detach removes the session from the topic, unloading the topic when it
// becomes empty.
func (h *Hub) detach(name string, sess *Session) {
	t := h.topicGet(name)
	if t == nil {
		return
	}
	delete(t.sessions, sess)
	if len(t.sessions) == 0 {
		h.topics.Delete(name)
		statsInc("LiveTopics", -1)
	}
}
