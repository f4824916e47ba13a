/******************************************************************************
 *
 *  Description :
 *
 *    Web server initialization and shutdown.
 *
 *****************************************************************************/

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/handlers"
	"golang.org/x/crypto/acme/autocert"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store/types"
)

type tlsConfig struct {
	// Flag enabling TLS.
	Enabled bool `json:"enabled"`
	// Listen on port 80 and redirect plain HTTP to HTTPS.
	RedirectHTTP string `json:"http_redirect"`
	// Enable Strict-Transport-Security by setting max_age > 0.
	StrictMaxAge int `json:"strict_max_age"`
	// ACME autocert config, e.g. letsencrypt.org.
	Autocert *tlsAutocertConfig `json:"autocert"`
	// If Autocert is not defined, provide file names of static certificate and key.
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
}

type tlsAutocertConfig struct {
	// Domains to support by autocert.
	Domains []string `json:"domains"`
	// Name of directory where auto-certificates are cached.
	CertCache string `json:"cache"`
	// Contact email for letsencrypt.
	Email string `json:"email"`
}

func listenAndServe(addr string, mux *http.ServeMux, tlfConf json.RawMessage, stop <-chan bool) error {
	globals.shuttingDown = false

	var tlsConf tlsConfig
	if tlfConf != nil {
		if err := json.Unmarshal(tlfConf, &tlsConf); err != nil {
			return errors.New("http: failed to parse tls_config: " + err.Error() + "(" + string(tlfConf) + ")")
		}
	}

	// Request logging and response compression.
	handler := handlers.CombinedLoggingHandler(os.Stdout, hstsHandler(handlers.CompressHandler(mux)))

	server := &http.Server{Addr: addr, Handler: handler}

	if tlsConf.Enabled {
		if tlsConf.StrictMaxAge > 0 {
			globals.tlsStrictMaxAge = strconv.Itoa(tlsConf.StrictMaxAge)
		}

		// If port is not specified, use default https port (443),
		// otherwise it will default to 80.
		if server.Addr == "" {
			server.Addr = ":https"
		}

		server.TLSConfig = &tls.Config{}
		if tlsConf.Autocert != nil {
			certManager := autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(tlsConf.Autocert.Domains...),
				Cache:      autocert.DirCache(tlsConf.Autocert.CertCache),
				Email:      tlsConf.Autocert.Email,
			}

			server.TLSConfig.GetCertificate = certManager.GetCertificate
			if tlsConf.CertFile != "" || tlsConf.KeyFile != "" {
				logs.Info.Println("HTTP server: using autocert, static cert and key files are ignored")
				tlsConf.CertFile = ""
				tlsConf.KeyFile = ""
			}
		} else if tlsConf.CertFile == "" || tlsConf.KeyFile == "" {
			return errors.New("HTTP server: missing certificate or key file names")
		}
	}

	httpdone := make(chan bool)

	go func() {
		var err error
		if tlsConf.Enabled {
			if tlsConf.RedirectHTTP != "" {
				logs.Info.Printf("Redirecting connections from HTTP at [%s] to HTTPS at [%s]",
					tlsConf.RedirectHTTP, server.Addr)
				go http.ListenAndServe(tlsConf.RedirectHTTP, tlsRedirect(addr))
			}

			logs.Info.Printf("Listening for client HTTPS connections on [%s]", server.Addr)
			err = server.ListenAndServeTLS(tlsConf.CertFile, tlsConf.KeyFile)
		} else {
			logs.Info.Printf("Listening for client HTTP connections on [%s]", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil {
			if globals.shuttingDown {
				logs.Info.Println("HTTP server: stopped")
			} else {
				logs.Err.Println("HTTP server: failed", err)
			}
		}
		httpdone <- true
	}()

	// Wait for either a termination signal or an error.
loop:
	for {
		select {
		case <-stop:
			// Flip the flag that we are terminating and close the Accept-ing
			// socket, so no new connections are possible.
			globals.shuttingDown = true
			if err := server.Shutdown(context.Background()); err != nil {
				// Failure/timeout shutting down the server gracefully.
				return err
			}

			// Wait for http server to stop Accept()-ing connections.
			<-httpdone

			// Terminate all sessions.
			globals.sessionStore.Shutdown()

			// Shutdown the hub.
			hubdone := make(chan bool)
			globals.hub.shutdown <- hubdone
			<-hubdone

			// Stop publishing stats.
			statsShutdown()

			break loop

		case <-httpdone:
			break loop
		}
	}
	return nil
}

func signalHandler() <-chan bool {
	stop := make(chan bool)

	signchan := make(chan os.Signal, 1)
	signal.Notify(signchan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		// Wait for a signal. Don't care which signal it is.
		sig := <-signchan
		logs.Info.Printf("Signal received: '%s', shutting down", sig)
		stop <- true
	}()

	return stop
}

// Wrapper for http.Handler which optionally adds a Strict-Transport-Security
// header to the response.
func hstsHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if globals.tlsStrictMaxAge != "" {
			w.Header().Set("Strict-Transport-Security", "max-age="+globals.tlsStrictMaxAge)
		}
		handler.ServeHTTP(w, r)
	})
}

func serve404(wrt http.ResponseWriter, req *http.Request) {
	wrt.WriteHeader(http.StatusNotFound)
	writeHTTPMessage(wrt, ErrNotFound("", "", types.TimeNow()))
}

// Redirect HTTP requests to HTTPS.
func tlsRedirect(toPort string) http.HandlerFunc {
	if toPort == ":443" || toPort == ":https" {
		toPort = ""
	}
	return func(wrt http.ResponseWriter, req *http.Request) {
		target := "https://" + strings.Split(req.Host, ":")[0] + toPort + req.URL.Path
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		http.Redirect(wrt, req, target, http.StatusTemporaryRedirect)
	}
}
