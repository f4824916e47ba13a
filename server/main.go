/******************************************************************************
 *
 *  Description :
 *
 *    Setup & initialization.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"runtime"
	"time"

	jcr "github.com/tinode/jsonco"

	"github.com/nestwire/nestwire/server/auth"
	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/media"
	_ "github.com/nestwire/nestwire/server/media/fs"
	_ "github.com/nestwire/nestwire/server/media/s3"
	"github.com/nestwire/nestwire/server/store"

	_ "github.com/nestwire/nestwire/server/db/mysql"
)

const (
	// currentVersion is the version of the API reported to clients.
	currentVersion = "0.2"
	// minSupportedVersion is the minimum supported API version.
	minSupportedVersion = "0.2"

	// idleSessionTimeout is the time after which an inactive session is
	// terminated.
	idleSessionTimeout = time.Second * 55

	// Default maximum size of an incoming wire message.
	defaultMaxMessageSize = 1 << 19 // 512K
)

// Build timestamp set by the compiler:
// -ldflags "-X main.buildstamp=`date -u '+%Y%m%dT%H:%M:%SZ'`".
var buildstamp = "undef"

var globals struct {
	hub          *Hub
	sessionStore *SessionStore
	store        *store.Store

	roster   *Roster
	messages *Messages
	receipts *Receipts
	presence *Presence

	tokenCodec   *auth.TokenCodec
	mediaHandler media.Handler

	// Channel for keeping the stats updater fed.
	statsUpdate chan *varUpdate

	// Maximum size of a wire message in bytes.
	maxMessageSize int64
	// Trust the X-Forwarded-For header for client addresses.
	useXForwardedFor bool
	// URL path at which uploaded files are served.
	fileServeBase string
	// Strict-Transport-Security max age, as a string. Empty if disabled.
	tlsStrictMaxAge string
	// Intentional shutdown in progress.
	shuttingDown bool
}

type configType struct {
	// HTTP(S) address:port to listen on.
	Listen string `json:"listen"`
	// URL path for exposing runtime stats. Disabled if the path is blank
	// or "-".
	ExpvarPath string `json:"expvar"`
	// Maximum message size allowed from the clients in bytes.
	MaxMessageSize int64 `json:"max_message_size"`
	// Take the client IP from the X-Forwarded-For header.
	UseXForwardedFor bool `json:"use_x_forwarded_for"`

	// Worker id for the unique id generator, 0..1023.
	WorkerID int `json:"worker_id"`

	// Configs for subsystems.
	Auth  json.RawMessage `json:"auth_config"`
	Store json.RawMessage `json:"store_config"`
	TLS   json.RawMessage `json:"tls"`
	Media *mediaConfig    `json:"media"`
}

type mediaConfig struct {
	// Name of the handler to use for file uploads: "fs", "s3".
	UseHandler string `json:"use_handler"`
	// URL path at which uploaded files are served.
	ServeBase string `json:"serve_base"`
	// Configurations for the individual handlers.
	Handlers map[string]json.RawMessage `json:"handlers"`
}

func main() {
	logs.Info.Printf("Server pid=%d started with processes: %d",
		os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))

	configfile := flag.String("config", "./nestwire.conf", "Path to config file.")
	listenOn := flag.String("listen", "", "Override address and port to listen on.")
	initDb := flag.Bool("init_db", false, "Initialize the database schema and exit.")
	resetDb := flag.Bool("reset_db", false, "Drop the database before initializing.")
	expvarPath := flag.String("expvar", "", "Override the path where runtime stats are exposed. Use '-' to disable.")
	flag.Parse()

	logs.Info.Printf("Using config from '%s'", *configfile)

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		logs.Err.Fatalln("Failed to read config file:", err)
	} else {
		jr := jcr.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			switch jerr := err.(type) {
			case *json.UnmarshalTypeError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
					jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
			case *json.SyntaxError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Syntax error in config file at %d:%d (offset %d bytes): %s",
					lnum, cnum, jerr.Offset, jerr.Error())
			default:
				logs.Err.Fatalln("Failed to parse config file:", err)
			}
		}
		file.Close()
	}

	if *listenOn != "" {
		config.Listen = *listenOn
	}
	if *expvarPath != "" {
		config.ExpvarPath = *expvarPath
	}
	if config.ExpvarPath == "" {
		config.ExpvarPath = "/stats/expvar/"
	}

	var err error
	globals.store, err = store.Open(config.WorkerID, config.Store)
	if err != nil {
		logs.Err.Fatalln("Failed to connect to DB:", err)
	}
	defer func() {
		globals.store.Close()
		logs.Info.Println("Closed database connection(s)")
		logs.Info.Println("All done, good bye")
	}()

	if *initDb {
		if err = globals.store.InitDb(*resetDb); err != nil {
			logs.Err.Fatalln("Failed to initialize the database:", err)
		}
		logs.Info.Println("Database initialized")
		return
	}

	globals.tokenCodec = &auth.TokenCodec{}
	if err = globals.tokenCodec.Init(config.Auth); err != nil {
		logs.Err.Fatalln("Failed to initialize auth tokens:", err)
	}

	globals.maxMessageSize = config.MaxMessageSize
	if globals.maxMessageSize <= 0 {
		globals.maxMessageSize = defaultMaxMessageSize
	}
	globals.useXForwardedFor = config.UseXForwardedFor

	mux := http.NewServeMux()

	statsInit(mux, config.ExpvarPath)
	statsRegisterInt("Version")
	statsSet("Version", int64(parseVersion(currentVersion)))

	globals.sessionStore = NewSessionStore()
	globals.hub = newHub()

	globals.receipts = newReceipts(globals.store, globals.hub)
	globals.roster = newRoster(globals.store, globals.hub, globals.sessionStore, globals.receipts)
	globals.messages = newMessages(globals.store, globals.hub, globals.roster, globals.receipts)
	globals.presence = newPresence(globals.store, globals.hub)

	statsRegisterInt("IncomingMessagesWebsockTotal")
	statsRegisterInt("OutgoingMessagesWebsockTotal")
	statsRegisterInt("FileUploadsTotal")
	statsRegisterInt("FileDownloadsTotal")

	if config.Media != nil && config.Media.UseHandler != "" {
		globals.fileServeBase = config.Media.ServeBase
		if globals.fileServeBase == "" {
			globals.fileServeBase = "/v0/file/s/"
		}
		jsconf := config.Media.Handlers[config.Media.UseHandler]
		globals.mediaHandler, err = media.UseHandler(config.Media.UseHandler, string(jsconf), globals.store.Files)
		if err != nil {
			logs.Err.Fatalf("Failed to init media handler '%s': %v", config.Media.UseHandler, err)
		}

		mux.HandleFunc("/v0/file/u/", largeFileUpload)
		mux.HandleFunc(globals.fileServeBase, largeFileServe)
		logs.Info.Printf("Large media handling enabled '%s'", config.Media.UseHandler)
	}

	mux.HandleFunc("/v0/channels", serveWebSocket)
	mux.HandleFunc("/", serve404)

	if err = listenAndServe(config.Listen, mux, config.TLS, signalHandler()); err != nil {
		logs.Err.Fatalln(err)
	}
}
