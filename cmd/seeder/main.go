package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/database"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

const numMatches = 40

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "atr.db",
		"MIGRATIONS_DIR":    "./migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var demoPlayers = []club.Profile{
	{ID: "seed-player-1", FullName: "Amara Okafor"},
	{ID: "seed-player-2", FullName: "Bongani Dlamini"},
	{ID: "seed-player-3", FullName: "Chen Wei"},
	{ID: "seed-player-4", FullName: "Dana Kowalski"},
	{ID: "seed-player-5", FullName: "Elif Yilmaz"},
	{ID: "seed-player-6", FullName: "Farid Haddad"},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()
	store := club.New(db)

	if err := store.SaveSystemSettings(ctx, rating.DefaultSettings); err != nil {
		log.Fatalf("Failed to save system settings: %s", err)
	}
	log.Info("Saved default system settings.", "settings", rating.DefaultSettings)

	if err := store.UpsertProfiles(ctx, demoPlayers); err != nil {
		log.Fatalf("Failed to insert demo players: %s", err)
	}
	log.Info("Ensured demo players exist.", "count", len(demoPlayers))

	ratings := rating.NewService(store)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	startTime := time.Now()

	for i := 0; i < numMatches; i++ {
		perm := rng.Perm(len(demoPlayers))
		winner, loser := demoPlayers[perm[0]], demoPlayers[perm[1]]
		payload := scoring.CompletionPayload{
			MatchID:      uuid.NewString(),
			EventID:      uuid.NewString(),
			WinnerID:     winner.ID,
			LoserID:      loser.ID,
			ScoreSummary: scoring.ScoreSummary{Sets: randomSets(rng)},
		}

		if err := seedEvent(ctx, store, payload); err != nil {
			log.Fatalf("Failed to seed event %s: %s", payload.EventID, err)
		}
		if _, err := ratings.UpdateRatings(ctx, payload); err != nil {
			log.Fatalf("Failed to rate seeded match %s: %s", payload.MatchID, err)
		}
	}

	log.Info("Successfully seeded rated matches.", "count", numMatches, "duration", time.Since(startTime))
}

func seedEvent(ctx context.Context, store club.ClubStore, p scoring.CompletionPayload) error {
	err := store.UpsertEvent(ctx, club.Event{
		ID:        p.EventID,
		MatchID:   p.MatchID,
		PlayerAID: p.WinnerID,
		PlayerBID: p.LoserID,
		Status:    club.EventInProgress,
		StartedAt: time.Now().Add(-90 * time.Minute),
	})
	if err != nil {
		return err
	}
	if err := store.CompleteEvent(ctx, p.EventID, p.WinnerID); err != nil {
		return err
	}
	rows := make([]club.SetScoreRow, len(p.ScoreSummary.Sets))
	for i, s := range p.ScoreSummary.Sets {
		rows[i] = club.SetScoreRow{ID: uuid.NewString(), EventID: p.EventID, SetNumber: i + 1, TeamAGames: s.TeamA, TeamBGames: s.TeamB}
	}
	return store.InsertSetScores(ctx, rows)
}

// randomSets returns a best-of-three result won by TeamA.
func randomSets(rng *rand.Rand) []scoring.OrientedSet {
	set := func() scoring.OrientedSet {
		switch rng.Intn(6) {
		case 0:
			return scoring.OrientedSet{TeamA: 7, TeamB: 5}
		case 1:
			return scoring.OrientedSet{TeamA: 7, TeamB: 6}
		default:
			return scoring.OrientedSet{TeamA: 6, TeamB: rng.Intn(5)}
		}
	}
	sets := []scoring.OrientedSet{set(), set()}
	if rng.Intn(3) == 0 {
		lost := set()
		lost.TeamA, lost.TeamB = lost.TeamB, lost.TeamA
		sets = []scoring.OrientedSet{sets[0], lost, sets[1]}
	}
	return sets
}
