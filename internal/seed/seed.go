// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"applytrack/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPostings int
	ShouldClean bool
}

var (
	jobTitles = []string{
		"Software Engineer", "Senior Software Engineer", "Backend Engineer",
		"Frontend Developer", "Full Stack Developer", "DevOps Engineer",
		"Site Reliability Engineer", "Data Engineer", "Platform Engineer",
		"Engineering Manager", "QA Engineer", "Mobile Developer",
		"Machine Learning Engineer", "Security Engineer", "Cloud Architect",
	}

	eventTitles = []string{
		"Phone screen", "Technical interview", "On-site interview",
		"Recruiter call", "Follow-up call", "Offer discussion",
		"Coding challenge due", "Team fit chat", "Final round",
	}

	eventColors = []string{
		"#3b82f6", "#ef4444", "#22c55e", "#f59e0b", "#8b5cf6", "#ec4899",
	}
)

// Seeder seeds the database with demo data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes all seedable data.
func (s *Seeder) ClearAll() error {
	// Children first so SQLite foreign keys stay satisfied.
	for _, model := range []any{
		&models.Reminder{},
		&models.Posting{},
		&models.Resume{},
		&models.CalendarEvent{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed populates the database with demo users, postings, and events.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("🌱 Seeding %d users with up to %d postings each...", opts.NumUsers, opts.NumPostings)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d demo users created", len(users))

	total := 0
	for _, user := range users {
		n, err := s.createPostings(user, opts.NumPostings)
		if err != nil {
			return fmt.Errorf("failed to create postings: %w", err)
		}
		total += n

		if err := s.createEvents(user); err != nil {
			return fmt.Errorf("failed to create events: %w", err)
		}
	}
	log.Printf("✓ %d postings created", total)

	return nil
}

func (s *Seeder) createUsers(n int) ([]*models.User, error) {
	// One shared hash keeps seeding fast; these are demo accounts.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("demo%d-%s", i, gofakeit.Email()),
			PasswordHash: string(hash),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createPostings(user *models.User, max int) (int, error) {
	statuses := []models.PostingStatus{
		models.StatusInterested, models.StatusApplied, models.StatusPhoneScreen,
		models.StatusInterview, models.StatusOffer, models.StatusRejected,
	}

	n := 1 + rand.Intn(max)
	for i := 0; i < n; i++ {
		posting := &models.Posting{
			UserID:      user.ID,
			Title:       jobTitles[rand.Intn(len(jobTitles))],
			Company:     gofakeit.Company(),
			Description: gofakeit.Paragraph(1, 3, 8, "\n"),
			Status:      statuses[rand.Intn(len(statuses))],
		}

		// Roughly half the postings get a due date in the near future or past.
		if rand.Intn(2) == 0 {
			due := time.Now().AddDate(0, 0, rand.Intn(21)-5)
			posting.DueDate = &due
		}

		if err := s.db.Create(posting).Error; err != nil {
			return 0, err
		}

		if posting.DueDate != nil && rand.Intn(3) == 0 {
			timings := []models.ReminderTiming{
				models.TimingOneDay, models.TimingThreeDays, models.TimingOneWeek,
			}
			reminder := &models.Reminder{
				PostingID:    posting.ID,
				EmailAddress: user.Email,
				Timing:       timings[rand.Intn(len(timings))],
			}
			if err := s.db.Create(reminder).Error; err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}

func (s *Seeder) createEvents(user *models.User) error {
	n := rand.Intn(4)
	for i := 0; i < n; i++ {
		start := time.Now().AddDate(0, 0, rand.Intn(14))
		event := &models.CalendarEvent{
			UserID:      user.ID,
			Title:       eventTitles[rand.Intn(len(eventTitles))],
			StartDate:   start,
			Description: gofakeit.Sentence(8),
			Color:       eventColors[rand.Intn(len(eventColors))],
		}
		if rand.Intn(2) == 0 {
			end := start.Add(time.Hour)
			event.EndDate = &end
		}
		if err := s.db.Create(event).Error; err != nil {
			return err
		}
	}
	return nil
}
