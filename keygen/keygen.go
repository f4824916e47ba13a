// Keygen generates the random keys the server config needs: the 16-byte XTEA
// key for the uid generator and the 32-byte HMAC key for signing session
// tokens. Keys are printed base64-encoded, ready to paste into nestwire.conf.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

const (
	uidKeyLength   = 16
	tokenKeyLength = 32
)

func main() {
	var which = flag.String("type", "all", "Type of key to generate: uid, token, all.")
	var validate = flag.String("validate", "", "Base64-encoded key to check for valid length.")
	flag.Parse()

	var code int
	if *validate != "" {
		code = check(*validate)
	} else {
		code = generate(*which)
	}
	os.Exit(code)
}

func generate(which string) int {
	switch which {
	case "uid":
		fmt.Println("uid_key:", randomKey(uidKeyLength))
	case "token":
		fmt.Println("token key:", randomKey(tokenKeyLength))
	case "all":
		fmt.Println("uid_key:", randomKey(uidKeyLength))
		fmt.Println("token key:", randomKey(tokenKeyLength))
	default:
		fmt.Println("unknown key type", which)
		return 1
	}
	return 0
}

func check(key string) int {
	dec, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		fmt.Println("failed to decode base64 key:", err)
		return 1
	}
	switch len(dec) {
	case uidKeyLength:
		fmt.Println("valid uid key")
	case tokenKeyLength:
		fmt.Println("valid token key")
	default:
		fmt.Println("invalid key length", len(dec))
		return 1
	}
	return 0
}

func randomKey(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
