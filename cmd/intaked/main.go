// CLAUDE:SUMMARY Entry point for the intake HTTP service — chi router, upload endpoint, trace listing, optional MCP stdio.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/moncel/intake/classify"
	"github.com/moncel/intake/dbopen"
	"github.com/moncel/intake/dispatch"
	"github.com/moncel/intake/idgen"
	"github.com/moncel/intake/pipeline"
	"github.com/moncel/intake/trace"
)

const maxUploadBytes = 32 << 20 // 32 MB

func main() {
	port := env("PORT", "8000")
	tracePath := env("TRACE_DB", "db/traces.db")
	settingsPath := env("SETTINGS_FILE", "")
	dispatchBase := env("DISPATCH_BASE_URL", "http://localhost:"+port)
	mcpTransport := env("MCP_TRANSPORT", "")
	authHash := os.Getenv("RECORDS_PASSWORD_HASH") // bcrypt hash, empty = open
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Trace store.
	traceDB, err := dbopen.Open(tracePath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("trace db", "error", err)
		os.Exit(1)
	}
	defer traceDB.Close()
	store := trace.NewStore(traceDB)
	if err := store.Init(); err != nil {
		slog.Error("trace init", "error", err)
		os.Exit(1)
	}

	// Pipeline settings.
	var cfg pipeline.Config
	if settingsPath != "" {
		cfg, err = pipeline.LoadSettings(settingsPath)
		if err != nil {
			slog.Error("settings", "error", err)
			os.Exit(1)
		}
	}
	cfg.Logger = logger

	dispatcher := dispatch.NewHTTP(dispatchBase, dispatch.WithLogger(logger))
	pipe := pipeline.New(cfg, dispatcher, store)

	newUploadID := idgen.Timestamped(idgen.NanoID(8))

	// Optional MCP over stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "intake",
			Version: "1.0.0",
		}, nil)
		pipe.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("mcp server", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Universal ingestion endpoint: multipart file upload → full pipeline.
	r.Post("/upload", func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
		file, header, err := req.FormFile("file")
		if err != nil {
			writeError(w, 400, err)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, 400, err)
			return
		}

		hint := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		if hint == "" {
			hint = header.Header.Get("Content-Type")
		}

		rec, err := pipe.Process(req.Context(), classify.RawInput{
			ID:         newUploadID() + "_" + filepath.Base(header.Filename),
			FormatHint: hint,
			Content:    content,
			ReceivedAt: time.Now().UTC(),
		})
		if err != nil {
			// Trace append failure: the audit record was not written,
			// the caller must retry.
			writeError(w, 503, err)
			return
		}
		writeJSON(w, 200, rec)
	})

	// Audit listing.
	r.Group(func(r chi.Router) {
		if authHash != "" {
			r.Use(basicAuth(authHash))
		}
		r.Get("/records", func(w http.ResponseWriter, req *http.Request) {
			records, err := store.List(req.Context(), queryInt(req, "limit", 100))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if records == nil {
				records = []trace.Record{}
			}
			writeJSON(w, 200, records)
		})
	})

	// Simulated action receivers, matching the default DISPATCH_BASE_URL
	// so a standalone instance has somewhere to deliver to.
	for _, target := range []string{"/crm", "/risk_alert", "/compliance_alert"} {
		r.Post(target, func(w http.ResponseWriter, req *http.Request) {
			body, _ := io.ReadAll(io.LimitReader(req.Body, 4096))
			slog.Info("action received", "target", target, "body", string(body))
			writeJSON(w, 200, map[string]string{"status": "received", "target": target})
		})
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// basicAuth guards a route group with a single bcrypt-hashed password.
// The username is ignored; only the password is checked.
func basicAuth(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pass, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="records"`)
				writeJSON(w, 401, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
