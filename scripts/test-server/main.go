// Command test-server is a stub target for trying hakai locally.
//
//	go run ./scripts/test-server --port 8888
//	hakai -c 4 -n 100 examples/basic.yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	port := pflag.IntP("port", "p", 8888, "port to listen on")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "test-server").Logger()

	mux := http.NewServeMux()

	// Always 200
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	// Always 500
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "500 Internal Server Error")
	})

	// 200 after ?delay= (default 2s), useful to see timeouts
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		delay := 2 * time.Second
		if d, err := time.ParseDuration(r.URL.Query().Get("delay")); err == nil {
			delay = d
		}
		time.Sleep(delay)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Slow response")
	})

	// Echoes method, query, content type and body as JSON
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"method":      r.Method,
			"query":       r.URL.RawQuery,
			"contentType": r.Header.Get("Content-Type"),
			"userAgent":   r.UserAgent(),
			"body":        string(body),
		})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	logger.Info().
		Str("addr", server.Addr).
		Int("cpus", runtime.NumCPU()).
		Msg("endpoints: /ok, /error, /slow, /echo")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
