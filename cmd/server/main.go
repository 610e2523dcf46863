package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog"

	"github.com/eladsnd/cardsAgainstSoogShell/config"
	"github.com/eladsnd/cardsAgainstSoogShell/crypto"
	"github.com/eladsnd/cardsAgainstSoogShell/game"
	"github.com/eladsnd/cardsAgainstSoogShell/server"
	"github.com/eladsnd/cardsAgainstSoogShell/storage"
	"github.com/eladsnd/cardsAgainstSoogShell/storage/migrations"
)

func main() {
	// Missing .env is fine; envs may come from the shell or a supervisor.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Custom decks need postgres; without it the built-in packs still work.
	var decks game.DeckSource
	if cfg.PostgresURL != "" {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		repo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer repo.Close()
		decks = repo
		log.Info().Msg("custom deck storage enabled")
	} else {
		log.Warn().Msg("POSTGRES_URL not set, custom decks disabled")
	}

	sessionKey := cfg.SessionKey
	if sessionKey == "" {
		// Tokens then only survive until the next restart, which suits the
		// party use case.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatal().Err(err).Msg("failed to generate session key")
		}
		sessionKey = hex.EncodeToString(buf)
		log.Warn().Msg("SESSION_KEY not set, generated an ephemeral one")
	}
	sessions := crypto.NewSessionManager(sessionKey, cfg.SessionTimeout)

	rules := game.Rules{
		MinPlayers:    cfg.Game.MinPlayers,
		MaxPlayers:    cfg.Game.MaxPlayers,
		WinningScore:  cfg.Game.WinningScore,
		HandSize:      cfg.Game.HandSize,
		SwapsPerRound: cfg.Game.SwapsPerRound,
		TimerSeconds:  cfg.Game.TimerSeconds,
	}
	codes := game.Codes{Length: cfg.Game.CodeLength, Chars: cfg.Game.CodeChars}

	registry := game.NewRegistry(rules, codes, game.BuiltinPacks, decks, log)
	grace := game.NewCoordinator(registry, cfg.GracePeriod, log)
	handler := server.NewGameHandler(registry, grace, sessions, log)

	origins := cfg.AllowedOrigins
	if len(origins) == 1 && origins[0] == "*" {
		origins = nil
	}
	r := server.CreateServer(origins)
	r.GET("/ws", handler.Serve)
	r.GET("/api/local-ip", server.LocalIPHandler(cfg.Port))

	joinURL := fmt.Sprintf("http://%s:%d", server.LocalIP(), cfg.Port)
	fmt.Println("Scan to join from your phone:")
	qrterminal.GenerateWithConfig(joinURL, qrterminal.Config{
		Level:     qrterminal.L,
		Writer:    os.Stdout,
		QuietZone: 1,
	})
	fmt.Println(joinURL)

	log.Info().Int("port", cfg.Port).Msg("server listening")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
