// Package mysql is a database adapter for MySQL.
package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	ms "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/nestwire/nestwire/server/store"
	adpt "github.com/nestwire/nestwire/server/store/adapter"
	t "github.com/nestwire/nestwire/server/store/types"
)

// adapter holds MySQL connection data.
type adapter struct {
	db     *sqlx.DB
	dbName string
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/nestwire?parseTime=true&collation=utf8mb4_unicode_ci"
	defaultDatabase = "nestwire"

	adapterName = "mysql"
)

type configType struct {
	DSN    string `json:"dsn,omitempty"`
	DBName string `json:"database,omitempty"`
}

// Open initializes the MySQL connection.
func (a *adapter) Open(jsonconfig string) error {
	if a.db != nil {
		return errors.New("mysql adapter is already connected")
	}

	var err error
	var config configType

	if err = json.Unmarshal([]byte(jsonconfig), &config); err != nil {
		return errors.New("mysql adapter failed to parse config: " + err.Error())
	}

	dsn := config.DSN
	if dsn == "" {
		dsn = defaultDSN
	}

	a.dbName = config.DBName
	if a.dbName == "" {
		a.dbName = defaultDatabase
	}

	a.db, err = sqlx.Open("mysql", dsn)
	if err != nil {
		return err
	}

	// sql.Open does not open the network connection.
	// Force network connection here.
	return a.db.Ping()
}

// Close closes the underlying database connection.
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does
// not check if connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// isDupe checks if the error is the MySQL duplicate-entry error.
func isDupe(err error) bool {
	if err == nil {
		return false
	}
	myerr, ok := err.(*ms.MySQLError)
	return ok && myerr.Number == 1062
}

// updateByMap turns a generic update map into SQL columns and arguments.
func updateByMap(update map[string]any) (cols []string, args []any) {
	for col, arg := range update {
		cols = append(cols, strings.ToLower(col)+"=?")
		args = append(args, arg)
	}
	return
}

// CreateDb initializes the storage. Optionally drops the database first.
func (a *adapter) CreateDb(reset bool) error {
	var err error
	var tx *sql.Tx

	if tx, err = a.db.Begin(); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if reset {
		if _, err = tx.Exec("DROP DATABASE IF EXISTS " + a.dbName); err != nil {
			return err
		}
	}

	if _, err = tx.Exec("CREATE DATABASE " + a.dbName +
		" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		return err
	}

	if _, err = tx.Exec("USE " + a.dbName); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE users(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			username  VARCHAR(32) NOT NULL,
			public    VARCHAR(64) NOT NULL DEFAULT '',
			avatar    VARCHAR(255) NOT NULL DEFAULT '',
			bio       TEXT,
			searchable TINYINT NOT NULL DEFAULT 1,
			listable   TINYINT NOT NULL DEFAULT 1,
			status     VARCHAR(16) NOT NULL DEFAULT 'offline',
			lastseen   DATETIME(3),
			hidestatus TINYINT NOT NULL DEFAULT 0,
			lastip     VARCHAR(45) NOT NULL DEFAULT '',
			superuser  TINYINT NOT NULL DEFAULT 0,
			banned     TINYINT NOT NULL DEFAULT 0,
			banreason  VARCHAR(255) NOT NULL DEFAULT '',
			bannedat   DATETIME(3),
			bannedips  JSON,
			PRIMARY KEY(id),
			UNIQUE INDEX users_username(username)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE auth(
			userid BIGINT UNSIGNED NOT NULL,
			secret VARBINARY(255) NOT NULL,
			PRIMARY KEY(userid),
			FOREIGN KEY(userid) REFERENCES users(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE rooms(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			name      VARCHAR(64) NOT NULL,
			kind      VARCHAR(16) NOT NULL,
			public    TINYINT NOT NULL DEFAULT 0,
			owner     BIGINT UNSIGNED NOT NULL,
			avatar    VARCHAR(255) NOT NULL DEFAULT '',
			invitetoken VARCHAR(64),
			PRIMARY KEY(id),
			UNIQUE INDEX rooms_invitetoken(invitetoken)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE channels(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			roomid    BIGINT UNSIGNED NOT NULL,
			name      VARCHAR(64) NOT NULL,
			description VARCHAR(255) NOT NULL DEFAULT '',
			iconemoji VARCHAR(16) NOT NULL DEFAULT '',
			PRIMARY KEY(id),
			INDEX channels_roomid(roomid),
			FOREIGN KEY(roomid) REFERENCES rooms(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE memberships(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			userid    BIGINT UNSIGNED NOT NULL,
			roomid    BIGINT UNSIGNED NOT NULL,
			role      VARCHAR(16) NOT NULL DEFAULT 'member',
			PRIMARY KEY(id),
			UNIQUE INDEX memberships_userid_roomid(userid, roomid),
			INDEX memberships_roomid(roomid),
			FOREIGN KEY(userid) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY(roomid) REFERENCES rooms(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE roombans(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			roomid    BIGINT UNSIGNED NOT NULL,
			userid    BIGINT UNSIGNED NOT NULL,
			bannedby  BIGINT UNSIGNED NOT NULL,
			reason    VARCHAR(255) NOT NULL DEFAULT '',
			purged    TINYINT NOT NULL DEFAULT 0,
			PRIMARY KEY(id),
			UNIQUE INDEX roombans_roomid_userid(roomid, userid),
			FOREIGN KEY(roomid) REFERENCES rooms(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE messages(
			seqid     BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			channelid BIGINT UNSIGNED NOT NULL,
			fromid    BIGINT UNSIGNED NOT NULL,
			content   TEXT NOT NULL,
			type      VARCHAR(16) NOT NULL DEFAULT 'text',
			fileurl   VARCHAR(255) NOT NULL DEFAULT '',
			filename  VARCHAR(255) NOT NULL DEFAULT '',
			filesize  BIGINT NOT NULL DEFAULT 0,
			editedat  DATETIME(3),
			replyto   BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY(seqid),
			INDEX messages_channelid_seqid(channelid, seqid),
			INDEX messages_fromid(fromid),
			FOREIGN KEY(channelid) REFERENCES channels(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE reactions(
			id        BIGINT NOT NULL AUTO_INCREMENT,
			messageid BIGINT NOT NULL,
			userid    BIGINT UNSIGNED NOT NULL,
			emoji     VARCHAR(32) NOT NULL,
			kind      VARCHAR(16) NOT NULL DEFAULT 'emoji',
			PRIMARY KEY(id),
			UNIQUE INDEX reactions_msg_user_emoji(messageid, userid, emoji),
			FOREIGN KEY(messageid) REFERENCES messages(seqid) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE readmarkers(
			userid      BIGINT UNSIGNED NOT NULL,
			channelid   BIGINT UNSIGNED NOT NULL,
			lastreadseq BIGINT NOT NULL DEFAULT 0,
			readat      DATETIME(3) NOT NULL,
			PRIMARY KEY(userid, channelid),
			FOREIGN KEY(channelid) REFERENCES channels(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE tracks(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			userid    BIGINT UNSIGNED NOT NULL,
			title     VARCHAR(255) NOT NULL,
			artist    VARCHAR(255) NOT NULL DEFAULT '',
			fileurl   VARCHAR(255) NOT NULL,
			cover     VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY(id),
			INDEX tracks_userid(userid),
			FOREIGN KEY(userid) REFERENCES users(id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE filedefs(
			id        BIGINT UNSIGNED NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			userid    BIGINT UNSIGNED NOT NULL,
			status    INT NOT NULL DEFAULT 0,
			mimetype  VARCHAR(255) NOT NULL DEFAULT '',
			size      BIGINT NOT NULL DEFAULT 0,
			location  VARCHAR(2048) NOT NULL DEFAULT '',
			PRIMARY KEY(id)
		)`); err != nil {
		return err
	}

	return tx.Commit()
}

// userRow mirrors the users table.
type userRow struct {
	Id         uint64
	CreatedAt  time.Time  `db:"createdat"`
	UpdatedAt  time.Time  `db:"updatedat"`
	Username   string
	Public     string
	Avatar     string
	Bio        string
	Searchable bool
	Listable   bool
	Status     string
	LastSeen   *time.Time `db:"lastseen"`
	HideStatus bool       `db:"hidestatus"`
	LastIP     string     `db:"lastip"`
	Superuser  bool
	Banned     bool
	BanReason  string     `db:"banreason"`
	BannedAt   *time.Time `db:"bannedat"`
	BannedIPs  []byte     `db:"bannedips"`
}

func (r *userRow) toUser() *t.User {
	user := &t.User{
		Username:   r.Username,
		Public:     r.Public,
		Avatar:     r.Avatar,
		Bio:        r.Bio,
		Searchable: r.Searchable,
		Listable:   r.Listable,
		Status:     t.PresenceStatus(r.Status),
		LastSeen:   r.LastSeen,
		HideStatus: r.HideStatus,
		LastIP:     r.LastIP,
		Superuser:  r.Superuser,
		Banned:     r.Banned,
		BanReason:  r.BanReason,
		BannedAt:   r.BannedAt,
	}
	user.SetUid(t.Uid(r.Id))
	user.CreatedAt = r.CreatedAt
	user.UpdatedAt = r.UpdatedAt
	if len(r.BannedIPs) > 0 {
		json.Unmarshal(r.BannedIPs, &user.BannedIPs)
	}
	return user
}

// UserCreate creates a user record.
func (a *adapter) UserCreate(user *t.User) error {
	ips, _ := json.Marshal(user.BannedIPs)
	_, err := a.db.Exec(
		`INSERT INTO users(id,createdat,updatedat,username,public,avatar,bio,
			searchable,listable,status,lastseen,hidestatus,lastip,superuser,banned,banreason,bannedat,bannedips)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uint64(user.Uid()), user.CreatedAt, user.UpdatedAt, user.Username, user.Public,
		user.Avatar, user.Bio, user.Searchable, user.Listable, string(user.Status),
		user.LastSeen, user.HideStatus, user.LastIP, user.Superuser, user.Banned, user.BanReason,
		user.BannedAt, ips)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// UserGet fetches a single user by user id. If the user is not found it
// returns (nil, nil).
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	var row userRow
	err := a.db.Get(&row, "SELECT * FROM users WHERE id=?", uint64(uid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toUser(), nil
}

// UserGetByUsername fetches a single user by unique username.
func (a *adapter) UserGetByUsername(uname string) (*t.User, error) {
	var row userRow
	err := a.db.Get(&row, "SELECT * FROM users WHERE username=?", uname)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toUser(), nil
}

// UserGetAll returns user records for the given ids.
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	uids := make([]any, len(ids))
	for i, id := range ids {
		uids[i] = uint64(id)
	}

	q, args, _ := sqlx.In("SELECT * FROM users WHERE id IN (?)", uids)
	rows, err := a.db.Queryx(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []t.User
	for rows.Next() {
		var row userRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		users = append(users, *row.toUser())
	}
	return users, rows.Err()
}

// UserUpdate applies the given updates to the user record.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]any) error {
	cols, args := updateByMap(update)
	args = append(args, uint64(uid))
	_, err := a.db.Exec("UPDATE users SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// UserDelete hard-deletes the user. Memberships, tracks, reactions and read
// markers cascade through foreign keys; messages keep the author id.
func (a *adapter) UserDelete(uid t.Uid) error {
	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM reactions WHERE userid=?", uint64(uid)); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM readmarkers WHERE userid=?", uint64(uid)); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM users WHERE id=?", uint64(uid)); err != nil {
		return err
	}
	return tx.Commit()
}

// UserUpdatePresence writes presence status and optionally the last-seen time.
func (a *adapter) UserUpdatePresence(uid t.Uid, status t.PresenceStatus, lastSeen *time.Time) error {
	var err error
	if lastSeen != nil {
		_, err = a.db.Exec("UPDATE users SET status=?, lastseen=? WHERE id=?",
			string(status), lastSeen, uint64(uid))
	} else {
		_, err = a.db.Exec("UPDATE users SET status=?, lastseen=NULL WHERE id=?",
			string(status), uint64(uid))
	}
	return err
}

// UserFind returns users matching the normalized query by username or
// display name. If all is true privacy flags are ignored.
func (a *adapter) UserFind(query string, all bool) ([]t.User, error) {
	pattern := "%" + query + "%"
	q := "SELECT * FROM users WHERE banned=0 AND (username LIKE ? OR public LIKE ?)"
	if !all {
		q += " AND searchable=1 AND listable=1"
	}
	q += " ORDER BY username"

	rows, err := a.db.Queryx(q, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []t.User
	for rows.Next() {
		var row userRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		users = append(users, *row.toUser())
	}
	return users, rows.Err()
}

// UserIsIPBanned checks if the address is recorded against any globally
// banned user.
func (a *adapter) UserIsIPBanned(addr string) (bool, error) {
	if addr == "" {
		return false, nil
	}
	var count int
	err := a.db.Get(&count,
		"SELECT COUNT(*) FROM users WHERE banned=1 AND JSON_CONTAINS(bannedips, JSON_QUOTE(?))", addr)
	return count > 0, err
}

// UserBanGlobal marks the user banned, appends the address, converts every
// membership into a room ban and optionally purges the user's messages.
func (a *adapter) UserBanGlobal(uid, by t.Uid, reason, addr string, purge bool) ([]t.Uid, error) {
	user, err := a.UserGet(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, t.ErrNotFound
	}

	ips := user.BannedIPs
	if addr != "" {
		found := false
		for _, known := range ips {
			if known == addr {
				found = true
				break
			}
		}
		if !found {
			ips = append(ips, addr)
		}
	}
	ipsJSON, _ := json.Marshal(ips)

	tx, err := a.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := t.TimeNow()
	if _, err = tx.Exec(
		"UPDATE users SET banned=1, banreason=?, bannedat=?, bannedips=?, updatedat=? WHERE id=?",
		reason, now, ipsJSON, now, uint64(uid)); err != nil {
		return nil, err
	}

	// Convert memberships to room bans.
	var roomids []uint64
	if err = tx.Select(&roomids, "SELECT roomid FROM memberships WHERE userid=?", uint64(uid)); err != nil {
		return nil, err
	}
	if _, err = tx.Exec("DELETE FROM memberships WHERE userid=?", uint64(uid)); err != nil {
		return nil, err
	}

	var rooms []t.Uid
	for _, roomid := range roomids {
		ban := &t.RoomBan{Room: t.Uid(roomid), User: uid, BannedBy: by, Reason: reason, Purged: purge}
		ban.SetUid(t.Uid(roomid) ^ uid)
		if _, err = tx.Exec(
			"INSERT IGNORE INTO roombans(id,createdat,updatedat,roomid,userid,bannedby,reason,purged) VALUES(?,?,?,?,?,?,?,?)",
			uint64(ban.Uid()), now, now, roomid, uint64(uid), uint64(by), reason, purge); err != nil {
			return nil, err
		}
		rooms = append(rooms, t.Uid(roomid))
	}

	if purge {
		if _, err = tx.Exec("DELETE FROM messages WHERE fromid=?", uint64(uid)); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rooms, nil
}

// UserUnbanGlobal clears the global ban fields and deletes all room bans of
// the user.
func (a *adapter) UserUnbanGlobal(uid t.Uid) error {
	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(
		"UPDATE users SET banned=0, banreason='', bannedat=NULL, updatedat=? WHERE id=?",
		t.TimeNow(), uint64(uid)); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM roombans WHERE userid=?", uint64(uid)); err != nil {
		return err
	}
	return tx.Commit()
}

// AuthAddRecord stores a login secret for the user.
func (a *adapter) AuthAddRecord(uid t.Uid, secret []byte) error {
	_, err := a.db.Exec("INSERT INTO auth(userid,secret) VALUES(?,?)", uint64(uid), secret)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// AuthGetRecord fetches the stored secret and user id by username.
func (a *adapter) AuthGetRecord(uname string) (t.Uid, []byte, error) {
	var record struct {
		Userid uint64
		Secret []byte
	}
	err := a.db.Get(&record,
		"SELECT a.userid, a.secret FROM auth a JOIN users u ON u.id=a.userid WHERE u.username=?", uname)
	if err == sql.ErrNoRows {
		return t.ZeroUid, nil, t.ErrNotFound
	}
	if err != nil {
		return t.ZeroUid, nil, err
	}
	return t.Uid(record.Userid), record.Secret, nil
}

// AuthUpdRecord replaces the stored secret.
func (a *adapter) AuthUpdRecord(uid t.Uid, secret []byte) error {
	_, err := a.db.Exec("UPDATE auth SET secret=? WHERE userid=?", secret, uint64(uid))
	return err
}

// roomRow mirrors the rooms table.
type roomRow struct {
	Id          uint64
	CreatedAt   time.Time `db:"createdat"`
	UpdatedAt   time.Time `db:"updatedat"`
	Name        string
	Kind        string
	Public      bool
	Owner       uint64
	Avatar      string
	InviteToken *string `db:"invitetoken"`
}

func (r *roomRow) toRoom() *t.Room {
	room := &t.Room{
		Name:   r.Name,
		Kind:   t.RoomKind(r.Kind),
		Public: r.Public,
		Owner:  t.Uid(r.Owner),
		Avatar: r.Avatar,
	}
	room.SetUid(t.Uid(r.Id))
	room.CreatedAt = r.CreatedAt
	room.UpdatedAt = r.UpdatedAt
	if r.InviteToken != nil {
		room.InviteToken = *r.InviteToken
	}
	return room
}

func insertRoom(tx *sqlx.Tx, room *t.Room) error {
	var token *string
	if room.InviteToken != "" {
		token = &room.InviteToken
	}
	_, err := tx.Exec(
		"INSERT INTO rooms(id,createdat,updatedat,name,kind,public,owner,avatar,invitetoken) VALUES(?,?,?,?,?,?,?,?,?)",
		uint64(room.Uid()), room.CreatedAt, room.UpdatedAt, room.Name, string(room.Kind),
		room.Public, uint64(room.Owner), room.Avatar, token)
	return err
}

func insertChannel(tx *sqlx.Tx, ch *t.Channel) error {
	_, err := tx.Exec(
		"INSERT INTO channels(id,createdat,updatedat,roomid,name,description,iconemoji) VALUES(?,?,?,?,?,?,?)",
		uint64(ch.Uid()), ch.CreatedAt, ch.UpdatedAt, uint64(ch.Room), ch.Name,
		ch.Description, ch.IconEmoji)
	return err
}

func insertMembership(tx *sqlx.Tx, sub *t.Membership) error {
	_, err := tx.Exec(
		"INSERT INTO memberships(id,createdat,updatedat,userid,roomid,role) VALUES(?,?,?,?,?,?)",
		uint64(sub.Uid()), sub.CreatedAt, sub.UpdatedAt, uint64(sub.User), uint64(sub.Room),
		string(sub.Role))
	return err
}

// RoomCreate creates the room, the owner membership and the default channel
// in a single transaction.
func (a *adapter) RoomCreate(room *t.Room, defaultChannel *t.Channel) error {
	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = insertRoom(tx, room); err != nil {
		return err
	}
	if err = insertChannel(tx, defaultChannel); err != nil {
		return err
	}
	sub := &t.Membership{Room: room.Uid(), User: room.Owner, Role: t.RoleOwner}
	sub.SetUid(room.Uid() ^ room.Owner)
	sub.CreatedAt = room.CreatedAt
	sub.UpdatedAt = room.UpdatedAt
	if err = insertMembership(tx, sub); err != nil {
		return err
	}
	return tx.Commit()
}

// RoomCreateDM creates a DM room with both memberships and the single channel
// in one transaction.
func (a *adapter) RoomCreateDM(room *t.Room, channel *t.Channel, first, second t.Uid) error {
	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = insertRoom(tx, room); err != nil {
		return err
	}
	if err = insertChannel(tx, channel); err != nil {
		return err
	}
	for _, uid := range []t.Uid{first, second} {
		sub := &t.Membership{Room: room.Uid(), User: uid, Role: t.RoleMember}
		sub.SetUid(room.Uid() ^ uid)
		sub.CreatedAt = room.CreatedAt
		sub.UpdatedAt = room.UpdatedAt
		if err = insertMembership(tx, sub); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RoomGet returns a room by id, (nil, nil) if missing.
func (a *adapter) RoomGet(room t.Uid) (*t.Room, error) {
	var row roomRow
	err := a.db.Get(&row, "SELECT * FROM rooms WHERE id=?", uint64(room))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toRoom(), nil
}

// RoomGetByInvite returns a room by its invite token.
func (a *adapter) RoomGetByInvite(token string) (*t.Room, error) {
	var row roomRow
	err := a.db.Get(&row, "SELECT * FROM rooms WHERE invitetoken=?", token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toRoom(), nil
}

// RoomGetDM finds an existing DM room between the two users.
func (a *adapter) RoomGetDM(first, second t.Uid) (*t.Room, error) {
	var row roomRow
	err := a.db.Get(&row,
		`SELECT r.* FROM rooms r
			JOIN memberships m1 ON m1.roomid=r.id AND m1.userid=?
			JOIN memberships m2 ON m2.roomid=r.id AND m2.userid=?
		WHERE r.kind='dm' LIMIT 1`,
		uint64(first), uint64(second))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toRoom(), nil
}

// RoomUpdate applies the given updates to the room record.
func (a *adapter) RoomUpdate(room t.Uid, update map[string]any) error {
	cols, args := updateByMap(update)
	args = append(args, uint64(room))
	_, err := a.db.Exec("UPDATE rooms SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// RoomDelete deletes the room. Channels, messages, memberships, bans and
// read markers cascade through foreign keys.
func (a *adapter) RoomDelete(room t.Uid) error {
	_, err := a.db.Exec("DELETE FROM rooms WHERE id=?", uint64(room))
	return err
}

// RoomsPublic returns public non-DM rooms, or all non-DM rooms if all is set.
func (a *adapter) RoomsPublic(all bool) ([]t.Room, error) {
	q := "SELECT * FROM rooms WHERE kind<>'dm'"
	if !all {
		q += " AND public=1"
	}
	q += " ORDER BY name"

	rows, err := a.db.Queryx(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []t.Room
	for rows.Next() {
		var row roomRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		rooms = append(rooms, *row.toRoom())
	}
	return rooms, rows.Err()
}

// channelRow mirrors the channels table.
type channelRow struct {
	Id          uint64
	CreatedAt   time.Time `db:"createdat"`
	UpdatedAt   time.Time `db:"updatedat"`
	RoomId      uint64    `db:"roomid"`
	Name        string
	Description string
	IconEmoji   string `db:"iconemoji"`
}

func (r *channelRow) toChannel() *t.Channel {
	ch := &t.Channel{
		Room:        t.Uid(r.RoomId),
		Name:        r.Name,
		Description: r.Description,
		IconEmoji:   r.IconEmoji,
	}
	ch.SetUid(t.Uid(r.Id))
	ch.CreatedAt = r.CreatedAt
	ch.UpdatedAt = r.UpdatedAt
	return ch
}

// ChannelCreate adds a channel to a room.
func (a *adapter) ChannelCreate(ch *t.Channel) error {
	_, err := a.db.Exec(
		"INSERT INTO channels(id,createdat,updatedat,roomid,name,description,iconemoji) VALUES(?,?,?,?,?,?,?)",
		uint64(ch.Uid()), ch.CreatedAt, ch.UpdatedAt, uint64(ch.Room), ch.Name,
		ch.Description, ch.IconEmoji)
	return err
}

// ChannelGet returns a channel by id, (nil, nil) if missing.
func (a *adapter) ChannelGet(ch t.Uid) (*t.Channel, error) {
	var row channelRow
	err := a.db.Get(&row, "SELECT * FROM channels WHERE id=?", uint64(ch))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toChannel(), nil
}

// ChannelsForRoom returns channels of a room ordered by creation.
func (a *adapter) ChannelsForRoom(room t.Uid) ([]t.Channel, error) {
	rows, err := a.db.Queryx(
		"SELECT * FROM channels WHERE roomid=? ORDER BY createdat, id", uint64(room))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []t.Channel
	for rows.Next() {
		var row channelRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		channels = append(channels, *row.toChannel())
	}
	return channels, rows.Err()
}

// ChannelUpdate applies the given updates to the channel record.
func (a *adapter) ChannelUpdate(ch t.Uid, update map[string]any) error {
	cols, args := updateByMap(update)
	args = append(args, uint64(ch))
	_, err := a.db.Exec("UPDATE channels SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	return err
}

// ChannelDelete deletes the channel. Messages, reactions and read markers
// cascade through foreign keys.
func (a *adapter) ChannelDelete(ch t.Uid) error {
	_, err := a.db.Exec("DELETE FROM channels WHERE id=?", uint64(ch))
	return err
}

// memberRow mirrors the memberships table.
type memberRow struct {
	Id        uint64
	CreatedAt time.Time `db:"createdat"`
	UpdatedAt time.Time `db:"updatedat"`
	UserId    uint64    `db:"userid"`
	RoomId    uint64    `db:"roomid"`
	Role      string
}

func (r *memberRow) toMembership() *t.Membership {
	sub := &t.Membership{
		User: t.Uid(r.UserId),
		Room: t.Uid(r.RoomId),
		Role: t.Role(r.Role),
	}
	sub.SetUid(t.Uid(r.Id))
	sub.CreatedAt = r.CreatedAt
	sub.UpdatedAt = r.UpdatedAt
	return sub
}

// MemberAdd inserts a membership.
func (a *adapter) MemberAdd(sub *t.Membership) error {
	_, err := a.db.Exec(
		"INSERT INTO memberships(id,createdat,updatedat,userid,roomid,role) VALUES(?,?,?,?,?,?)",
		uint64(sub.Uid()), sub.CreatedAt, sub.UpdatedAt, uint64(sub.User), uint64(sub.Room),
		string(sub.Role))
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// MemberGet reads a single membership, (nil, nil) if missing.
func (a *adapter) MemberGet(room, user t.Uid) (*t.Membership, error) {
	var row memberRow
	err := a.db.Get(&row, "SELECT * FROM memberships WHERE roomid=? AND userid=?",
		uint64(room), uint64(user))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toMembership(), nil
}

// MembersForRoom returns all memberships of a room.
func (a *adapter) MembersForRoom(room t.Uid) ([]t.Membership, error) {
	rows, err := a.db.Queryx(
		"SELECT * FROM memberships WHERE roomid=? ORDER BY createdat, id", uint64(room))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []t.Membership
	for rows.Next() {
		var row memberRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		subs = append(subs, *row.toMembership())
	}
	return subs, rows.Err()
}

// MembersForUser returns all memberships of a user.
func (a *adapter) MembersForUser(user t.Uid) ([]t.Membership, error) {
	rows, err := a.db.Queryx(
		"SELECT * FROM memberships WHERE userid=? ORDER BY createdat, id", uint64(user))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []t.Membership
	for rows.Next() {
		var row memberRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		subs = append(subs, *row.toMembership())
	}
	return subs, rows.Err()
}

// MemberUpdateRole changes the role on an existing membership.
func (a *adapter) MemberUpdateRole(room, user t.Uid, role t.Role) error {
	res, err := a.db.Exec(
		"UPDATE memberships SET role=?, updatedat=? WHERE roomid=? AND userid=?",
		string(role), t.TimeNow(), uint64(room), uint64(user))
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// MemberDelete removes a membership.
func (a *adapter) MemberDelete(room, user t.Uid) error {
	res, err := a.db.Exec("DELETE FROM memberships WHERE roomid=? AND userid=?",
		uint64(room), uint64(user))
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// banRow mirrors the roombans table.
type banRow struct {
	Id        uint64
	CreatedAt time.Time `db:"createdat"`
	UpdatedAt time.Time `db:"updatedat"`
	RoomId    uint64    `db:"roomid"`
	UserId    uint64    `db:"userid"`
	BannedBy  uint64    `db:"bannedby"`
	Reason    string
	Purged    bool
}

func (r *banRow) toBan() *t.RoomBan {
	ban := &t.RoomBan{
		Room:     t.Uid(r.RoomId),
		User:     t.Uid(r.UserId),
		BannedBy: t.Uid(r.BannedBy),
		Reason:   r.Reason,
		Purged:   r.Purged,
	}
	ban.SetUid(t.Uid(r.Id))
	ban.CreatedAt = r.CreatedAt
	ban.UpdatedAt = r.UpdatedAt
	return ban
}

// MemberBan atomically deletes the membership, inserts the ban record and
// optionally purges the target's messages in the room.
func (a *adapter) MemberBan(ban *t.RoomBan, purge bool) (int64, error) {
	tx, err := a.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM memberships WHERE roomid=? AND userid=?",
		uint64(ban.Room), uint64(ban.User)); err != nil {
		return 0, err
	}

	// Idempotent on an existing ban record.
	if _, err = tx.Exec(
		"INSERT IGNORE INTO roombans(id,createdat,updatedat,roomid,userid,bannedby,reason,purged) VALUES(?,?,?,?,?,?,?,?)",
		uint64(ban.Uid()), ban.CreatedAt, ban.UpdatedAt, uint64(ban.Room), uint64(ban.User),
		uint64(ban.BannedBy), ban.Reason, ban.Purged); err != nil {
		return 0, err
	}

	var purged int64
	if purge {
		var res sql.Result
		res, err = tx.Exec(
			`DELETE m FROM messages m JOIN channels c ON c.id=m.channelid
			WHERE c.roomid=? AND m.fromid=?`,
			uint64(ban.Room), uint64(ban.User))
		if err != nil {
			return 0, err
		}
		purged, _ = res.RowsAffected()
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return purged, nil
}

// BanGet reads a room ban, (nil, nil) if missing.
func (a *adapter) BanGet(room, user t.Uid) (*t.RoomBan, error) {
	var row banRow
	err := a.db.Get(&row, "SELECT * FROM roombans WHERE roomid=? AND userid=?",
		uint64(room), uint64(user))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toBan(), nil
}

// BansForRoom returns all bans of a room.
func (a *adapter) BansForRoom(room t.Uid) ([]t.RoomBan, error) {
	rows, err := a.db.Queryx(
		"SELECT * FROM roombans WHERE roomid=? ORDER BY createdat, id", uint64(room))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bans []t.RoomBan
	for rows.Next() {
		var row banRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		bans = append(bans, *row.toBan())
	}
	return bans, rows.Err()
}

// BanDelete removes a room ban.
func (a *adapter) BanDelete(room, user t.Uid) error {
	res, err := a.db.Exec("DELETE FROM roombans WHERE roomid=? AND userid=?",
		uint64(room), uint64(user))
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// messageRow mirrors the messages table.
type messageRow struct {
	SeqId     int64     `db:"seqid"`
	CreatedAt time.Time `db:"createdat"`
	ChannelId uint64    `db:"channelid"`
	FromId    uint64    `db:"fromid"`
	Content   string
	Type      string
	FileURL   string `db:"fileurl"`
	FileName  string `db:"filename"`
	FileSize  int64  `db:"filesize"`
	EditedAt  *time.Time `db:"editedat"`
	ReplyTo   int64      `db:"replyto"`
}

func (r *messageRow) toMessage() *t.Message {
	return &t.Message{
		SeqId:     r.SeqId,
		CreatedAt: r.CreatedAt,
		Channel:   t.Uid(r.ChannelId),
		From:      t.Uid(r.FromId),
		Content:   r.Content,
		Type:      t.MessageType(r.Type),
		FileURL:   r.FileURL,
		FileName:  r.FileName,
		FileSize:  r.FileSize,
		EditedAt:  r.EditedAt,
		ReplyTo:   r.ReplyTo,
	}
}

// MessageSave stores a message.
func (a *adapter) MessageSave(msg *t.Message) error {
	_, err := a.db.Exec(
		`INSERT INTO messages(seqid,createdat,channelid,fromid,content,type,
			fileurl,filename,filesize,editedat,replyto) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		msg.SeqId, msg.CreatedAt, uint64(msg.Channel), uint64(msg.From), msg.Content,
		string(msg.Type), msg.FileURL, msg.FileName, msg.FileSize, msg.EditedAt, msg.ReplyTo)
	return err
}

// MessageGet returns a message by channel and seq id, (nil, nil) if missing.
func (a *adapter) MessageGet(ch t.Uid, seq int64) (*t.Message, error) {
	var row messageRow
	err := a.db.Get(&row, "SELECT * FROM messages WHERE channelid=? AND seqid=?",
		uint64(ch), seq)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toMessage(), nil
}

// MessagesForChannel returns messages with seq greater than since in
// ascending seq order.
func (a *adapter) MessagesForChannel(ch t.Uid, since int64, limit int) ([]t.Message, error) {
	q := "SELECT * FROM messages WHERE channelid=? AND seqid>? ORDER BY seqid"
	args := []any{uint64(ch), since}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.Queryx(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []t.Message
	for rows.Next() {
		var row messageRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		msgs = append(msgs, *row.toMessage())
	}
	return msgs, rows.Err()
}

// MessageUpdate replaces content and sets the edited timestamp.
func (a *adapter) MessageUpdate(ch t.Uid, seq int64, content string, editedAt time.Time) error {
	res, err := a.db.Exec(
		"UPDATE messages SET content=?, editedat=? WHERE channelid=? AND seqid=?",
		content, editedAt, uint64(ch), seq)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// MessageDelete removes a single message. Reactions cascade.
func (a *adapter) MessageDelete(ch t.Uid, seq int64) error {
	res, err := a.db.Exec("DELETE FROM messages WHERE channelid=? AND seqid=?",
		uint64(ch), seq)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// MessageDeleteForUser purges all messages by the user in all channels of the
// room in one transaction.
func (a *adapter) MessageDeleteForUser(room, user t.Uid) (int64, error) {
	res, err := a.db.Exec(
		`DELETE m FROM messages m JOIN channels c ON c.id=m.channelid
		WHERE c.roomid=? AND m.fromid=?`,
		uint64(room), uint64(user))
	if err != nil {
		return 0, err
	}
	count, _ := res.RowsAffected()
	return count, nil
}

// MessageCountSince counts messages in the channel with seq greater than
// since, excluding those authored by skip.
func (a *adapter) MessageCountSince(ch t.Uid, since int64, skip t.Uid) (int, error) {
	var count int
	err := a.db.Get(&count,
		"SELECT COUNT(*) FROM messages WHERE channelid=? AND seqid>? AND fromid<>?",
		uint64(ch), since, uint64(skip))
	return count, err
}

// MessageLastSeq returns the highest seq id in the channel, 0 if empty.
func (a *adapter) MessageLastSeq(ch t.Uid) (int64, error) {
	var seq sql.NullInt64
	err := a.db.Get(&seq, "SELECT MAX(seqid) FROM messages WHERE channelid=?", uint64(ch))
	if err != nil {
		return 0, err
	}
	return seq.Int64, nil
}

// ReactionToggle inserts the triple or, when it already exists, deletes it.
// A lost insert race surfaces as a duplicate and is treated as a remove.
func (a *adapter) ReactionToggle(msg int64, user t.Uid, emoji, kind string) (string, error) {
	res, err := a.db.Exec("DELETE FROM reactions WHERE messageid=? AND userid=? AND emoji=?",
		msg, uint64(user), emoji)
	if err != nil {
		return "", err
	}
	if count, _ := res.RowsAffected(); count > 0 {
		return "removed", nil
	}

	_, err = a.db.Exec("INSERT INTO reactions(messageid,userid,emoji,kind) VALUES(?,?,?,?)",
		msg, uint64(user), emoji, kind)
	if isDupe(err) {
		// Concurrent toggle won the insert; observe it as a remove.
		a.db.Exec("DELETE FROM reactions WHERE messageid=? AND userid=? AND emoji=?",
			msg, uint64(user), emoji)
		return "removed", nil
	}
	if err != nil {
		return "", err
	}
	return "added", nil
}

// ReactionsForMessages returns reactions for the given messages in insertion
// order.
func (a *adapter) ReactionsForMessages(msgs []int64) ([]t.Reaction, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	ids := make([]any, len(msgs))
	for i, id := range msgs {
		ids[i] = id
	}

	q, args, _ := sqlx.In("SELECT * FROM reactions WHERE messageid IN (?) ORDER BY id", ids)
	rows, err := a.db.Queryx(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []t.Reaction
	for rows.Next() {
		var row struct {
			Id        int64
			MessageId int64  `db:"messageid"`
			UserId    uint64 `db:"userid"`
			Emoji     string
			Kind      string
		}
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		reactions = append(reactions, t.Reaction{
			Id:      row.Id,
			Message: row.MessageId,
			User:    t.Uid(row.UserId),
			Emoji:   row.Emoji,
			Kind:    row.Kind,
		})
	}
	return reactions, rows.Err()
}

// MarkerUpsert records the last read seq for (user, channel).
func (a *adapter) MarkerUpsert(marker *t.ReadMarker) error {
	_, err := a.db.Exec(
		`INSERT INTO readmarkers(userid,channelid,lastreadseq,readat) VALUES(?,?,?,?)
		ON DUPLICATE KEY UPDATE lastreadseq=VALUES(lastreadseq), readat=VALUES(readat)`,
		uint64(marker.User), uint64(marker.Channel), marker.LastReadSeq, marker.ReadAt)
	return err
}

// MarkerGet reads a marker, (nil, nil) if missing.
func (a *adapter) MarkerGet(user, ch t.Uid) (*t.ReadMarker, error) {
	var row struct {
		UserId      uint64    `db:"userid"`
		ChannelId   uint64    `db:"channelid"`
		LastReadSeq int64     `db:"lastreadseq"`
		ReadAt      time.Time `db:"readat"`
	}
	err := a.db.Get(&row, "SELECT * FROM readmarkers WHERE userid=? AND channelid=?",
		uint64(user), uint64(ch))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t.ReadMarker{
		User:        t.Uid(row.UserId),
		Channel:     t.Uid(row.ChannelId),
		LastReadSeq: row.LastReadSeq,
		ReadAt:      row.ReadAt,
	}, nil
}

// trackRow mirrors the tracks table.
type trackRow struct {
	Id        uint64
	CreatedAt time.Time `db:"createdat"`
	UpdatedAt time.Time `db:"updatedat"`
	UserId    uint64    `db:"userid"`
	Title     string
	Artist    string
	FileURL   string `db:"fileurl"`
	Cover     string
}

func (r *trackRow) toTrack() *t.Track {
	track := &t.Track{
		User:    t.Uid(r.UserId),
		Title:   r.Title,
		Artist:  r.Artist,
		FileURL: r.FileURL,
		Cover:   r.Cover,
	}
	track.SetUid(t.Uid(r.Id))
	track.CreatedAt = r.CreatedAt
	track.UpdatedAt = r.UpdatedAt
	return track
}

// TrackAdd stores a track owned by a user.
func (a *adapter) TrackAdd(track *t.Track) error {
	_, err := a.db.Exec(
		"INSERT INTO tracks(id,createdat,updatedat,userid,title,artist,fileurl,cover) VALUES(?,?,?,?,?,?,?,?)",
		uint64(track.Uid()), track.CreatedAt, track.UpdatedAt, uint64(track.User),
		track.Title, track.Artist, track.FileURL, track.Cover)
	return err
}

// TracksForUser returns the user's library ordered by addition time.
func (a *adapter) TracksForUser(user t.Uid) ([]t.Track, error) {
	rows, err := a.db.Queryx(
		"SELECT * FROM tracks WHERE userid=? ORDER BY createdat, id", uint64(user))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []t.Track
	for rows.Next() {
		var row trackRow
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		tracks = append(tracks, *row.toTrack())
	}
	return tracks, rows.Err()
}

// TrackDelete removes a track owned by the user.
func (a *adapter) TrackDelete(id, user t.Uid) error {
	res, err := a.db.Exec("DELETE FROM tracks WHERE id=? AND userid=?",
		uint64(id), uint64(user))
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return t.ErrNotFound
	}
	return nil
}

// fileRow mirrors the filedefs table.
type fileRow struct {
	Id        uint64
	CreatedAt time.Time `db:"createdat"`
	UpdatedAt time.Time `db:"updatedat"`
	UserId    uint64    `db:"userid"`
	Status    int
	MimeType  string `db:"mimetype"`
	Size      int64
	Location  string
}

func (r *fileRow) toFileDef() *t.FileDef {
	fd := &t.FileDef{
		User:     t.Uid(r.UserId),
		Status:   r.Status,
		MimeType: r.MimeType,
		Size:     r.Size,
		Location: r.Location,
	}
	fd.SetUid(t.Uid(r.Id))
	fd.CreatedAt = r.CreatedAt
	fd.UpdatedAt = r.UpdatedAt
	return fd
}

// FileStartUpload records a file upload in progress.
func (a *adapter) FileStartUpload(fd *t.FileDef) error {
	_, err := a.db.Exec(
		"INSERT INTO filedefs(id,createdat,updatedat,userid,status,mimetype,size,location) VALUES(?,?,?,?,?,?,?,?)",
		uint64(fd.Uid()), fd.CreatedAt, fd.UpdatedAt, uint64(fd.User), fd.Status,
		fd.MimeType, fd.Size, fd.Location)
	return err
}

// FileFinishUpload marks the upload as completed or failed.
func (a *adapter) FileFinishUpload(fid t.Uid, status int, size int64) (*t.FileDef, error) {
	if _, err := a.db.Exec(
		"UPDATE filedefs SET status=?, size=?, updatedat=? WHERE id=?",
		status, size, t.TimeNow(), uint64(fid)); err != nil {
		return nil, err
	}
	return a.FileGet(fid)
}

// FileGet fetches a file record, (nil, nil) if missing.
func (a *adapter) FileGet(fid t.Uid) (*t.FileDef, error) {
	var row fileRow
	err := a.db.Get(&row, "SELECT * FROM filedefs WHERE id=?", uint64(fid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toFileDef(), nil
}

// FileDelete removes a file record.
func (a *adapter) FileDelete(fid t.Uid) error {
	_, err := a.db.Exec("DELETE FROM filedefs WHERE id=?", uint64(fid))
	return err
}

var registered = &adapter{}

func init() {
	store.RegisterAdapter(adapterName, registered)
}

// GetAdapter returns the registered adapter instance. Used by the adapter
// test suite.
func GetAdapter() adpt.Adapter {
	return registered
}
