package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

// Scraper collects metrics from a nestwire server.
type Scraper struct {
	address string
	metrics []string
}

var errKeyNotFound = errors.New("key not found")

// Scrape fetches the data from the server using HTTP GET then decodes the response.
func (s *Scraper) Scrape() (map[string]any, error) {
	resp, err := http.Get(s.address)
	if err != nil {
		log.Println("Failed to connect to server", err)
		return nil, err
	}
	defer resp.Body.Close()

	var stats map[string]any
	err = json.NewDecoder(resp.Body).Decode(&stats)
	return stats, err
}

func parseMetric(stats map[string]any, key string) (float64, error) {
	v, err := parseNumeric(stats, key)

	if err == errKeyNotFound {
		// Missing keys are reported as zero so a partially initialized server
		// still scrapes cleanly.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseNumeric(stats map[string]any, path string) (float64, error) {
	parts := strings.Split(path, ".")
	var value any
	var found bool
	value = stats
	for i := 0; i < len(parts); i++ {
		subset, ok := value.(map[string]any)
		if !ok {
			log.Println("Invalid key path:", path)
			return 0, errKeyNotFound
		}
		value, found = subset[parts[i]]
		if !found {
			log.Println("Invalid key path:", path, "(", parts[i], ")")
			return 0, errKeyNotFound
		}
	}

	floatval, ok := value.(float64)
	if !ok {
		log.Println("Value at path is not a float64:", path, value)
		return 0, errKeyNotFound
	}

	return floatval, nil
}
