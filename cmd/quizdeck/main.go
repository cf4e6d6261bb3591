package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-go/internal/api"
	"github.com/quizdeck/quizdeck-go/internal/auth"
	"github.com/quizdeck/quizdeck-go/internal/config"
	"github.com/quizdeck/quizdeck-go/internal/credentials"
	"github.com/quizdeck/quizdeck-go/internal/logger"
	"github.com/quizdeck/quizdeck-go/internal/quiz"
	"github.com/quizdeck/quizdeck-go/internal/session"
)

func main() {
	useMemory := flag.Bool("use-memory-creds", false, "Keep credentials in memory only, never on disk")
	credsPath := flag.String("creds-path", "", "Path to the auth.json credentials file (default: XDG config dir)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var store credentials.Store
	if *useMemory {
		store = credentials.NewMemoryStore()
		log.Info().Msg("Using in-memory credential store")
	} else {
		path := *credsPath
		if path == "" {
			path = cfg.Credentials.Path
		}
		store = credentials.Open(path, log)
	}

	broadcaster := session.NewBroadcaster(cfg.Session.LogoutGrace, func(reason session.Reason) {
		log.Error().Str("reason", string(reason)).Msg("Session ended with no listener attached")
		os.Exit(1)
	})

	authClient := auth.NewClient(cfg.API.AuthURL, log)
	client := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Store:     store,
		Refresher: authClient,
		Logout:    broadcaster,
		Timeouts: api.Timeouts{
			Default:     cfg.Timeouts.Default,
			Upload:      cfg.Timeouts.Upload,
			LongRunning: cfg.Timeouts.LongRunning,
		},
		Logger: log,
	})

	// The CLI owns the user-facing reaction to a forced logout; the HTTP
	// client only broadcasts.
	logoutCh := broadcaster.Subscribe()
	go func() {
		reason := <-logoutCh
		log.Error().Str("reason", string(reason)).Msg("Session ended, run 'quizdeck login' to sign in again")
		os.Exit(1)
	}()

	validateCredentialsAtStartup(store, log)

	ctx := context.Background()
	quizzes := quiz.NewService(client)

	switch flag.Arg(0) {
	case "login":
		runLogin(ctx, authClient, store, broadcaster, log)
	case "quizzes":
		runList(ctx, quizzes, log)
	case "upload":
		runUpload(ctx, quizzes, flag.Arg(1), log)
	case "generate":
		runGenerate(ctx, quizzes, flag.Arg(1), log)
	case "logout":
		store.Clear()
		log.Info().Msg("Logged out, credentials cleared")
	default:
		fmt.Fprintln(os.Stderr, "usage: quizdeck [flags] login|quizzes|upload <file>|generate <document-id>|logout")
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, authClient *auth.Client, store credentials.Store, broadcaster *session.Broadcaster, log zerolog.Logger) {
	username := os.Getenv("QUIZDECK_USERNAME")
	password := os.Getenv("QUIZDECK_PASSWORD")
	if username == "" || password == "" {
		log.Fatal().Msg("Set QUIZDECK_USERNAME and QUIZDECK_PASSWORD to log in")
	}

	pair, err := authClient.Login(ctx, username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	store.SetTokens(pair.AccessToken, pair.RefreshToken)
	broadcaster.Reset()
	log.Info().Msg("Credentials saved")
}

func runList(ctx context.Context, quizzes *quiz.Service, log zerolog.Logger) {
	items, info, err := quizzes.List(ctx, api.ListParams{PerPage: 50, Sort: "-createdAt"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list quizzes")
	}
	for _, q := range items {
		fmt.Printf("%s  %-40s  %d questions\n", q.ID, q.Title, q.QuestionCount)
	}
	log.Info().Int("total", info.TotalItems).Msg("Quizzes listed")
}

func runUpload(ctx context.Context, quizzes *quiz.Service, path string, log zerolog.Logger) {
	if path == "" {
		log.Fatal().Msg("usage: quizdeck upload <file>")
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document")
	}
	defer f.Close()

	doc, err := quizzes.UploadDocument(ctx, f.Name(), f)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}
	log.Info().Str("document_id", doc.ID.String()).Str("status", doc.Status).Msg("Document uploaded")
	fmt.Println(doc.ID)
}

func runGenerate(ctx context.Context, quizzes *quiz.Service, rawID string, log zerolog.Logger) {
	documentID, err := uuid.Parse(rawID)
	if err != nil {
		log.Fatal().Msg("usage: quizdeck generate <document-id>")
	}
	q, err := quizzes.Generate(ctx, documentID, quiz.GenerateOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
	log.Info().Str("quiz_id", q.ID.String()).Int("questions", q.QuestionCount).Msg("Quiz generated")
	fmt.Println(q.ID)
}

func validateCredentialsAtStartup(store credentials.Store, log zerolog.Logger) {
	token := store.AccessToken()
	if token == "" {
		log.Debug().Msg("No stored credentials, run 'quizdeck login' for authenticated commands")
		return
	}

	exp, err := auth.ExpiresAt(token)
	if err != nil {
		log.Debug().Msg("Stored access token has no readable expiry")
		return
	}

	until := time.Until(exp)
	switch {
	case until <= 0:
		log.Warn().Dur("expired_for", -until).Msg("Access token is already expired, will refresh on first request")
	case until <= auth.ExpiryBuffer:
		log.Warn().Dur("expires_in", until).Msg("Access token expires soon, will refresh shortly")
	default:
		log.Info().Dur("expires_in", until).Msg("Access token is valid")
	}
}
