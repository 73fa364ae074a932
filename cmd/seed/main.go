package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookshelf/internal/config"
	"bookshelf/internal/db"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

const (
	worksAPIURL = "https://openlibrary.org/subjects/classics.json?limit=10"

	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

// subjectResponse represents the structure from the Open Library API.
type subjectResponse struct {
	Works []struct {
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"works"`
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Review{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Ensure the demo user exists
	demo, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (id=%d)", demo.Username, demo.ID)

	// Fetch starter titles from Open Library
	log.Printf("Fetching titles from: %s", worksAPIURL)
	titles, err := fetchTitles(worksAPIURL)
	if err != nil {
		log.Fatalf("Failed to fetch titles: %v", err)
	}
	log.Printf("Fetched %d titles", len(titles))

	created, skipped, err := seedReviews(ctx, reviewRepo, demo, titles)
	if err != nil {
		log.Fatalf("Failed to seed reviews: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New reviews created: %d", created)
	log.Printf("  - Already present, skipped: %d", skipped)
}

// ensureDemoUser creates the demo account unless it already exists.
func ensureDemoUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByUsername(ctx, demoUsername)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	user := &model.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	return user, nil
}

// fetchTitles fetches book titles from the Open Library subjects API.
func fetchTitles(url string) ([]string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var subject subjectResponse
	if err := json.Unmarshal(body, &subject); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	titles := make([]string, 0, len(subject.Works))
	for _, work := range subject.Works {
		if work.Title == "" {
			continue
		}
		title := work.Title
		if len(work.Authors) > 0 && work.Authors[0].Name != "" {
			title = fmt.Sprintf("%s by %s", work.Title, work.Authors[0].Name)
		}
		titles = append(titles, title)
	}
	return titles, nil
}

// seedReviews creates one starter review per title for the demo user,
// skipping titles the user already reviewed.
func seedReviews(ctx context.Context, repo repository.ReviewRepository, owner *model.User, titles []string) (created int, skipped int, err error) {
	existing, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list existing reviews: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.BookTitle] = true
	}

	rating := 4
	for _, title := range titles {
		if seen[title] {
			skipped++
			continue
		}
		review := &model.Review{
			BookTitle:  title,
			ReviewText: "Starter review seeded from the Open Library classics list.",
			Rating:     &rating,
			UserID:     owner.ID,
		}
		if err := repo.Create(ctx, review); err != nil {
			return created, skipped, fmt.Errorf("create review %q: %w", title, err)
		}
		created++
	}
	return created, skipped, nil
}
