// Metrics exporter: scrapes a nestwire server's expvar endpoint and serves
// the values in Prometheus format.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
)

type promHTTPLogger struct{}

func (l promHTTPLogger) Println(v ...any) {
	log.Println(v...)
}

func main() {
	log.Printf("Nestwire metrics exporter.")

	var (
		serverAddr  = flag.String("server_addr", "http://localhost:6060/stats/expvar/", "Address of the nestwire instance to scrape.")
		listenAt    = flag.String("listen_at", ":6222", "Host name and port to listen for incoming requests on.")
		metricList  = flag.String("metric_list", "Version,LiveSessions,TotalSessions,LiveTopics,TotalTopics,IncomingMessagesWebsockTotal,memstats.Alloc", "Comma-separated list of metrics to scrape and export.")
		namespace   = flag.String("prom_namespace", "nestwire", "Prometheus namespace for metrics '<namespace>_...'")
		metricsPath = flag.String("prom_metrics_path", "/metrics", "Path under which to expose metrics for Prometheus scrapes.")
		timeout     = flag.Int("prom_timeout", 15, "Server connection timeout in seconds in response to Prometheus scrapes.")
	)
	flag.Parse()

	if *metricsPath == "/" {
		log.Fatal("Serving metrics from / is not supported")
	}

	// Index page at web root.
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Nestwire Exporter</title></head><body>
<h1>Nestwire Exporter</h1>
<p>Prometheus exporter path: <a href='` + *metricsPath + `'>Metrics</a></p>
<h2>Build</h2>
<pre>` + version.Info() + ` ` + version.BuildContext() + `</pre>
</body></html>`))
	})

	metrics := strings.Split(*metricList, ",")
	scraper := Scraper{address: *serverAddr, metrics: metrics}
	promExporter := NewPromExporter(*serverAddr, *namespace, time.Duration(*timeout)*time.Second, &scraper)
	registry := prometheus.NewRegistry()
	registry.MustRegister(promExporter)
	http.Handle(*metricsPath,
		promhttp.InstrumentMetricHandler(
			registry,
			promhttp.HandlerFor(
				registry,
				promhttp.HandlerOpts{
					ErrorLog: &promHTTPLogger{},
					Timeout:  time.Duration(*timeout) * time.Second,
				},
			),
		),
	)

	log.Println("Reading nestwire expvar from", *serverAddr)
	log.Printf("Serving metrics at %s%s", *listenAt, *metricsPath)
	log.Fatalln(http.ListenAndServe(*listenAt, nil))
}
