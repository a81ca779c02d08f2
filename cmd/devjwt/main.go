package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unique-fitness/gym-admin-api/internal/platform/auth/jwtverifier"
	"github.com/unique-fitness/gym-admin-api/internal/platform/config"
)

// Tiny dev-only token issuer for staff logins.
//
// It signs HS256 tokens with the same JWT_SECRET/JWT_ISSUER/JWT_AUDIENCE the API verifies.
// Run with -sub to print one token, or -serve to expose GET /token?sub=<subject>.

func main() {
	sub := flag.String("sub", "", "subject to mint a single token for")
	serve := flag.Bool("serve", false, "serve GET /token instead of printing one token")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("service", "devjwt")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("load .env", "error", err)
		os.Exit(1)
	}

	cfg := config.JWTConfig{
		Secret:   getenv("JWT_SECRET", "dev-secret-dev-secret-dev-secret!"),
		Issuer:   getenv("JWT_ISSUER", "gym-admin-dev"),
		Audience: getenv("JWT_AUDIENCE", "gym-admin-api"),
	}
	ttl := getenvDuration("TTL", 8*time.Hour)

	if !*serve {
		if strings.TrimSpace(*sub) == "" {
			fmt.Fprintln(os.Stderr, "usage: devjwt -sub <subject> | devjwt -serve")
			os.Exit(2)
		}
		token, err := jwtverifier.Mint(cfg, strings.TrimSpace(*sub), time.Now().UTC(), ttl)
		if err != nil {
			logger.Error("mint token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// GET /token?sub=front-desk
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}

		now := time.Now().UTC()
		token, err := jwtverifier.Mint(cfg, sub, now, ttl)
		if err != nil {
			logger.Error("mint token", "error", err)
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"sub":   sub,
			"iss":   cfg.Issuer,
			"aud":   cfg.Audience,
			"exp":   now.Add(ttl).Unix(),
		})
	})

	srv := &http.Server{
		Addr:              ":" + getenv("PORT", "5556"),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("devjwt listening", "addr", srv.Addr, "iss", cfg.Issuer, "aud", cfg.Audience, "ttl", ttl.String())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("listen", "error", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
