package main

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"golang.org/x/time/rate"

	"github.com/nestwire/nestwire/server/auth"
	"github.com/nestwire/nestwire/server/store"
	"github.com/nestwire/nestwire/server/store/mock_store"
	"github.com/nestwire/nestwire/server/store/types"
)

func newDispatchSession(sid string) *Session {
	s := newTestSession(sid)
	s.limiter = rate.NewLimiter(requestRateLimit, requestRateBurst)
	return s
}

// shakeHands completes the {hi} handshake and drains the response.
func shakeHands(t *testing.T, s *Session) {
	t.Helper()
	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{Version: currentVersion}})
	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 200 {
		t.Fatalf("handshake failed with code %d", ctrl.Code)
	}
}

func ctrlParams(t *testing.T, ctrl *MsgServerCtrl) map[string]any {
	t.Helper()
	params, ok := ctrl.Params.(map[string]any)
	if !ok {
		t.Fatalf("expected params object, got %T", ctrl.Params)
	}
	return params
}

func TestDispatchHello(t *testing.T) {
	s := newDispatchSession("hello")

	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{
		Id: "123", Version: "0.2", UserAgent: "test-agent", Lang: "en-GB"}})

	ctrl := decodeCtrl(t, <-s.send)
	if ctrl.Code != 200 || ctrl.Id != "123" {
		t.Errorf("expected 200/'123', got %d/'%s'", ctrl.Code, ctrl.Id)
	}
	if got := ctrlParams(t, ctrl)["ver"]; got != currentVersion {
		t.Errorf("expected ver %q, got %v", currentVersion, got)
	}
	if s.ver != parseVersion("0.2") || s.userAgent != "test-agent" || s.lang != "en-GB" {
		t.Errorf("session state not updated: ver=%#x ua=%q lang=%q", s.ver, s.userAgent, s.lang)
	}
}

func TestDispatchHelloInvalidVersion(t *testing.T) {
	s := newDispatchSession("hello-bad")

	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{Version: "unparsable"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 400 {
		t.Errorf("expected 400, got %d", ctrl.Code)
	}
	if s.ver != 0 {
		t.Error("handshake must not complete on a bad version")
	}
}

func TestDispatchHelloUnsupportedVersion(t *testing.T) {
	s := newDispatchSession("hello-old")

	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{Version: "0.1"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 503 {
		t.Errorf("expected 503, got %d", ctrl.Code)
	}
}

func TestDispatchDuplicateHello(t *testing.T) {
	s := newDispatchSession("hello-dup")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{Version: currentVersion}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 304 {
		t.Errorf("expected 304, got %d", ctrl.Code)
	}
}

func TestDispatchBeforeHandshake(t *testing.T) {
	s := newDispatchSession("early")

	s.dispatch(&ClientComMessage{Acc: &MsgClientAcc{Username: "alice", Password: "secret99"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 409 {
		t.Errorf("expected 409, got %d", ctrl.Code)
	}
}

func TestDispatchAuthRequired(t *testing.T) {
	s := newDispatchSession("anon")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Sub: &MsgClientSub{Topic: "chnAAAABBBBCCC"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 401 {
		t.Errorf("expected 401, got %d", ctrl.Code)
	}
}

func TestDispatchRateLimited(t *testing.T) {
	s := newTestSession("throttled")
	s.limiter = rate.NewLimiter(0, 0)

	s.dispatch(&ClientComMessage{Hi: &MsgClientHi{Version: currentVersion}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 429 {
		t.Errorf("expected 429, got %d", ctrl.Code)
	}
}

func TestDispatchUnknownMessage(t *testing.T) {
	s := newDispatchSession("unknown")

	s.dispatch(&ClientComMessage{})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 400 {
		t.Errorf("expected 400, got %d", ctrl.Code)
	}
}

func TestDispatchMalformedJSON(t *testing.T) {
	s := newDispatchSession("garbled")

	s.dispatchRaw([]byte("this is not json"))

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 400 {
		t.Errorf("expected 400, got %d", ctrl.Code)
	}
}

func TestDispatchAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mock_store.NewMockUsersPersister(ctrl)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(user *types.User, secret []byte) (*types.User, error) {
			if user.Username != "alice" {
				t.Errorf("expected username 'alice', got %q", user.Username)
			}
			if err := auth.CompareSecret(secret, "secret99"); err != nil {
				t.Error("stored secret does not verify against the password")
			}
			user.SetUid(types.Uid(1))
			return user, nil
		})
	globals.store = &store.Store{Users: users}

	s := newDispatchSession("acc")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Acc: &MsgClientAcc{
		Id: "42", Username: "Alice", Password: "secret99"}})

	resp := decodeCtrl(t, <-s.send)
	if resp.Code != 201 || resp.Id != "42" {
		t.Errorf("expected 201/'42', got %d/'%s'", resp.Code, resp.Id)
	}
	if got := ctrlParams(t, resp)["user"]; got != types.Uid(1).UserId() {
		t.Errorf("unexpected user id in params: %v", got)
	}
}

func TestDispatchAccountShortPassword(t *testing.T) {
	s := newDispatchSession("acc-short")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Acc: &MsgClientAcc{Username: "alice", Password: "pw"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 400 {
		t.Errorf("expected 400, got %d", ctrl.Code)
	}
}

func TestDispatchAccountBadUsername(t *testing.T) {
	s := newDispatchSession("acc-bad")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Acc: &MsgClientAcc{Username: "a b c", Password: "secret99"}})

	if ctrl := decodeCtrl(t, <-s.send); ctrl.Code != 400 {
		t.Errorf("expected 400, got %d", ctrl.Code)
	}
}

func testTokenCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec := &auth.TokenCodec{}
	conf, _ := json.Marshal(map[string]any{
		"key":       []byte("0123456789abcdef0123456789abcdef"),
		"expire_in": 3600,
	})
	if err := codec.Init(conf); err != nil {
		t.Fatal("cannot initialize token codec:", err)
	}
	return codec
}

func TestDispatchLoginBasic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uid := types.Uid(7)
	hash, err := auth.HashSecret("secret99")
	if err != nil {
		t.Fatal("cannot hash password:", err)
	}

	account := types.User{Username: "alice", Public: "Alice"}
	account.SetUid(uid)

	users := mock_store.NewMockUsersPersister(ctrl)
	members := mock_store.NewMockMembersPersister(ctrl)
	users.EXPECT().GetAuthRecord("alice").Return(uid, hash, nil)
	users.EXPECT().Get(uid).Return(&account, nil).AnyTimes()
	// The login address is stored for moderation of offline accounts.
	users.EXPECT().Update(uid, map[string]any{"lastip": "192.0.2.1"}).Return(nil)
	users.EXPECT().UpdatePresence(uid, types.PresenceOnline, nil).Return(nil)
	members.EXPECT().ForUser(uid).Return(nil, nil)

	rec := &deliveryRecorder{}
	globals.store = &store.Store{Users: users, Members: members}
	globals.presence = newPresence(globals.store, rec)
	globals.tokenCodec = testTokenCodec(t)
	globals.hub = newTestHub()
	defer stopTestHub(globals.hub)

	s := newDispatchSession("login")
	s.remoteAddr = "192.0.2.1"
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Login: &MsgClientLogin{
		Scheme: "basic", Username: "Alice", Secret: []byte("secret99")}})

	resp := decodeCtrl(t, <-s.send)
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Text)
	}
	params := ctrlParams(t, resp)
	if params["user"] != uid.UserId() {
		t.Errorf("unexpected user id: %v", params["user"])
	}
	if params["token"] == nil || params["token"] == "" {
		t.Error("expected a session token in params")
	}
	if s.uid != uid || s.authLvl != auth.LevelAuth {
		t.Errorf("session not authenticated: uid=%s lvl=%s", s.uid, s.authLvl)
	}

	waitFor(t, "feed subscription", func() bool {
		return s.hasSub(topicUser(uid))
	})
}

func TestDispatchLoginWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uid := types.Uid(7)
	hash, err := auth.HashSecret("the right one")
	if err != nil {
		t.Fatal("cannot hash password:", err)
	}

	users := mock_store.NewMockUsersPersister(ctrl)
	users.EXPECT().GetAuthRecord("alice").Return(uid, hash, nil)
	globals.store = &store.Store{Users: users}

	s := newDispatchSession("login-bad")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Login: &MsgClientLogin{
		Scheme: "basic", Username: "alice", Secret: []byte("the wrong one")}})

	if resp := decodeCtrl(t, <-s.send); resp.Code != 401 {
		t.Errorf("expected 401, got %d", resp.Code)
	}
	if !s.uid.IsZero() {
		t.Error("session must not authenticate on a failed login")
	}
}

func TestDispatchLoginBannedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uid := types.Uid(7)
	hash, err := auth.HashSecret("secret99")
	if err != nil {
		t.Fatal("cannot hash password:", err)
	}

	account := types.User{Username: "alice", Banned: true}
	account.SetUid(uid)

	users := mock_store.NewMockUsersPersister(ctrl)
	users.EXPECT().GetAuthRecord("alice").Return(uid, hash, nil)
	users.EXPECT().Get(uid).Return(&account, nil)
	globals.store = &store.Store{Users: users}

	s := newDispatchSession("login-banned")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Login: &MsgClientLogin{
		Scheme: "basic", Username: "alice", Secret: []byte("secret99")}})

	if resp := decodeCtrl(t, <-s.send); resp.Code != 403 {
		t.Errorf("expected 403, got %d", resp.Code)
	}
}

func TestDispatchLoginUnknownScheme(t *testing.T) {
	s := newDispatchSession("login-scheme")
	shakeHands(t, s)

	s.dispatch(&ClientComMessage{Login: &MsgClientLogin{Scheme: "telepathy"}})

	if resp := decodeCtrl(t, <-s.send); resp.Code != 400 {
		t.Errorf("expected 400, got %d", resp.Code)
	}
}

func TestSubscribeOwnFeedOnly(t *testing.T) {
	globals.hub = newTestHub()
	defer stopTestHub(globals.hub)

	s := newDispatchSession("subself")
	shakeHands(t, s)
	s.uid = types.Uid(1)

	// Another user's feed is off limits.
	s.dispatch(&ClientComMessage{Sub: &MsgClientSub{Topic: topicUser(types.Uid(2))}})
	if resp := decodeCtrl(t, <-s.send); resp.Code != 403 {
		t.Errorf("expected 403, got %d", resp.Code)
	}

	s.dispatch(&ClientComMessage{Sub: &MsgClientSub{Topic: topicUser(types.Uid(1))}})
	if resp := decodeCtrl(t, <-s.send); resp.Code != 200 {
		t.Errorf("expected 200, got %d", resp.Code)
	}
}

func TestUnsubscribeNotJoined(t *testing.T) {
	s := newDispatchSession("unsub")
	shakeHands(t, s)
	s.uid = types.Uid(1)

	s.dispatch(&ClientComMessage{Unsub: &MsgClientUnsub{Topic: "chnAAAABBBBCCC"}})

	if resp := decodeCtrl(t, <-s.send); resp.Code != 304 {
		t.Errorf("expected 304, got %d", resp.Code)
	}
}

func TestNoteRequiresSubscription(t *testing.T) {
	globals.hub = newTestHub()
	defer stopTestHub(globals.hub)

	sender := newDispatchSession("typist")
	shakeHands(t, sender)
	sender.uid = types.Uid(1)

	watcher := newTestSession("watcher")
	topic := topicChannel(types.Uid(100))
	globals.hub.Subscribe(topic, watcher)
	waitFor(t, "watcher subscription", func() bool { return watcher.hasSub(topic) })

	// Not subscribed: silently dropped.
	sender.dispatch(&ClientComMessage{Note: &MsgClientNote{Channel: topic, What: "kp"}})
	select {
	case raw := <-watcher.send:
		t.Errorf("unexpected delivery: %s", raw)
	default:
	}

	globals.hub.Subscribe(topic, sender)
	waitFor(t, "sender subscription", func() bool { return sender.hasSub(topic) })

	sender.dispatch(&ClientComMessage{Note: &MsgClientNote{Channel: topic, What: "kp"}})
	msg := nextQueued(t, watcher)
	if msg.Evt == nil || msg.Evt.Name != evtTyping {
		t.Fatalf("expected a %s event, got %+v", evtTyping, msg)
	}
}
