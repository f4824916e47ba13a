// Package auth provides authentication levels, password hashing and the
// HMAC-signed session token used by the login handler.
package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nestwire/nestwire/server/store/types"
)

// Level is the type for authentication levels.
type Level int

// Authentication levels.
const (
	// LevelNone is undefined/not authenticated.
	LevelNone Level = iota * 10
	// LevelAuth is a fully authenticated user.
	LevelAuth
	// LevelRoot is a superuser.
	LevelRoot
)

// String implements Stringer interface for Level.
func (a Level) String() string {
	s, err := a.MarshalText()
	if err != nil {
		return "unkn"
	}
	return string(s)
}

// ParseAuthLevel parses authentication level from a string.
func ParseAuthLevel(name string) Level {
	switch strings.ToLower(name) {
	case "auth":
		return LevelAuth
	case "root":
		return LevelRoot
	default:
		return LevelNone
	}
}

// MarshalText converts Level to a slice of bytes with the name of the level.
func (a Level) MarshalText() ([]byte, error) {
	switch a {
	case LevelNone:
		return []byte(""), nil
	case LevelAuth:
		return []byte("auth"), nil
	case LevelRoot:
		return []byte("root"), nil
	default:
		return nil, errors.New("auth.Level: invalid level value")
	}
}

// UnmarshalText parses authentication level from a string.
func (a *Level) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "":
		*a = LevelNone
		return nil
	case "auth":
		*a = LevelAuth
		return nil
	case "root":
		*a = LevelRoot
		return nil
	default:
		return errors.New("auth.Level: unrecognized")
	}
}

// MarshalJSON converts Level to a quoted string.
func (a Level) MarshalJSON() ([]byte, error) {
	res, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	return append(append([]byte{'"'}, res...), '"'), nil
}

// UnmarshalJSON reads Level from a quoted string.
func (a *Level) UnmarshalJSON(b []byte) error {
	if b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("syntax error")
	}
	return a.UnmarshalText(b[1 : len(b)-1])
}

// HashSecret converts a plain text password to a salted hash for storage.
func HashSecret(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CompareSecret checks a plain text password against the stored hash.
func CompareSecret(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return types.ErrUnauthorized
	}
	return nil
}

// tokenLayout defines positioning of various bytes in a token.
// [8:UID][4:expires][2:authLevel][2:serial-number][32:signature] = 48 bytes.
type tokenLayout struct {
	// User ID.
	Uid uint64
	// Token expiration time.
	Expires uint32
	// User's authentication level.
	AuthLevel uint16
	// Serial number - to invalidate all tokens if needed.
	SerialNumber uint16
}

// TokenCodec signs and validates session tokens.
type TokenCodec struct {
	hmacSalt     []byte
	lifetime     time.Duration
	serialNumber int
}

// Init initializes the codec: parses the config and sets salt, serial number
// and lifetime.
func (ta *TokenCodec) Init(jsonconf json.RawMessage) error {
	type configType struct {
		// Key for signing tokens.
		Key []byte `json:"key"`
		// Serial number, to invalidate all issued tokens at once.
		SerialNum int `json:"serial_num"`
		// Token expiration time in seconds.
		ExpireIn int `json:"expire_in"`
	}
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("auth: failed to parse token config: " + err.Error())
	}

	if len(config.Key) < sha256.Size {
		return errors.New("auth: the key is missing or too short")
	}
	if config.ExpireIn <= 0 {
		return errors.New("auth: invalid expiration value")
	}

	ta.hmacSalt = config.Key
	ta.lifetime = time.Duration(config.ExpireIn) * time.Second
	ta.serialNumber = config.SerialNum

	return nil
}

// GenSecret makes a new signed token for the given user and level.
// Returns the token and its expiration time.
func (ta *TokenCodec) GenSecret(uid types.Uid, authLvl Level) ([]byte, time.Time, error) {
	expires := time.Now().Add(ta.lifetime).UTC().Round(time.Millisecond)

	tl := tokenLayout{
		Uid:          uint64(uid),
		Expires:      uint32(expires.Unix()),
		AuthLevel:    uint16(authLvl),
		SerialNumber: uint16(ta.serialNumber),
	}
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &tl)
	hasher := hmac.New(sha256.New, ta.hmacSalt)
	hasher.Write(buf.Bytes())
	binary.Write(buf, binary.LittleEndian, hasher.Sum(nil))

	return buf.Bytes(), expires, nil
}

// Authenticate checks validity of the provided token. Returns the user id and
// the authentication level it was issued for.
func (ta *TokenCodec) Authenticate(token []byte) (types.Uid, Level, error) {
	var tl tokenLayout
	dataSize := binary.Size(&tl)
	if len(token) < dataSize+sha256.Size {
		return types.ZeroUid, LevelNone, types.ErrMalformed
	}

	buf := bytes.NewBuffer(token)
	if err := binary.Read(buf, binary.LittleEndian, &tl); err != nil {
		return types.ZeroUid, LevelNone, types.ErrMalformed
	}

	hbuf := new(bytes.Buffer)
	binary.Write(hbuf, binary.LittleEndian, &tl)

	hasher := hmac.New(sha256.New, ta.hmacSalt)
	hasher.Write(hbuf.Bytes())
	if !hmac.Equal(token[dataSize:dataSize+sha256.Size], hasher.Sum(nil)) {
		return types.ZeroUid, LevelNone, types.ErrUnauthorized
	}

	if Level(tl.AuthLevel) > LevelRoot {
		return types.ZeroUid, LevelNone, types.ErrMalformed
	}

	if int(tl.SerialNumber) != ta.serialNumber {
		return types.ZeroUid, LevelNone, types.ErrUnauthorized
	}

	expires := time.Unix(int64(tl.Expires), 0).UTC()
	if expires.Before(time.Now().Add(1 * time.Second)) {
		return types.ZeroUid, LevelNone, types.ErrUnauthorized
	}

	return types.Uid(tl.Uid), Level(tl.AuthLevel), nil
}
