package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script.
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	const guildID = "seed-guild"
	now := time.Now().Unix()
	if _, err := db.Exec("INSERT OR IGNORE INTO guilds (guild_id, plan, created_at, updated_at) VALUES (?, 'free', ?, ?)", guildID, now, now); err != nil {
		log.Fatalf("Failed to insert seed guild: %s", err)
	}

	players := make([]string, 10)
	for i := range players {
		players[i] = fmt.Sprintf("seed-player-%d", i+1)
	}
	for _, id := range players {
		if _, err := db.Exec("INSERT OR IGNORE INTO users (discord_id, created_at) VALUES (?, ?)", id, now); err != nil {
			log.Fatalf("Failed to insert dummy user %s: %s", id, err)
		}
		if _, err := db.Exec(
			"INSERT OR IGNORE INTO guild_ratings (guild_id, discord_id, rating, placement_games, updated_at) VALUES (?, ?, ?, ?, ?)",
			guildID, id, rating.InitialRating+rand.Intn(800)-400, rating.PlacementGamesRequired, now,
		); err != nil {
			log.Fatalf("Failed to insert rating for %s: %s", id, err)
		}
	}
	log.Info("Ensured dummy users and ratings exist.")

	const batchSize = 100
	const numEntries = 10000

	log.Info("Preparing to insert dummy history rows...", "total", numEntries, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*10)

	flush := func() {
		if len(valueStrings) == 0 {
			return
		}
		stmt := "INSERT INTO guild_user_match_history (match_id, guild_id, discord_id, side, role, win, rating_before, rating_after, rating_change, created_at) VALUES " +
			strings.Join(valueStrings, ",")
		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert history batch: %s", err)
		}
		valueStrings = valueStrings[:0]
		valueArgs = valueArgs[:0]
	}

	roles := []string{"TOP", "JUNGLE", "MID", "ADC", "SUPPORT"}
	for i := 0; i < numEntries; i++ {
		player := players[rand.Intn(len(players))]
		before := rating.InitialRating + rand.Intn(800) - 400
		change := rand.Intn(32) - 16
		win := change >= 0
		side := rating.SideBlue
		if rand.Intn(2) == 1 {
			side = rating.SideRed
		}
		playedAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			guildID,
			player,
			string(side),
			roles[rand.Intn(len(roles))],
			win,
			before,
			before+change,
			change,
			playedAt.Unix(),
		)
		if len(valueStrings) == batchSize {
			flush()
		}
	}
	flush()

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit history batch: %s", err)
	}

	log.Info("Seeding complete.", "entries", numEntries, "duration", time.Since(startTime))
}
