// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"tessera/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with generated social data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := s.createFollows(users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Println("✓ follow graph created")

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := s.createComments(users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Println("✓ comments created")

	chats, err := s.createChats(users)
	if err != nil {
		return fmt.Errorf("failed to create chats: %w", err)
	}
	log.Printf("✓ %d chats created", len(chats))

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll removes all seeded data in foreign-key order.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	tables := []string{
		"comment_likes", "comments", "post_likes", "posts",
		"messages", "chat_users", "chats", "user_follows", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// generateUsername builds a username that satisfies the account rules:
// 8 to 20 characters, letters and digits only.
func (s *Seeder) generateUsername(i int) string {
	base := strings.ToLower(gofakeit.FirstName() + gofakeit.LastName())
	clean := make([]rune, 0, len(base))
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			clean = append(clean, r)
		}
	}
	username := fmt.Sprintf("%s%d", string(clean), i)
	for len(username) < 8 {
		username += fmt.Sprintf("%d", s.rand.Intn(10))
	}
	if len(username) > 20 {
		username = username[:20]
	}
	return username
}

// clip bounds generated content to the given maximum length.
func clip(content string, max int) string {
	if len(content) > max {
		return strings.TrimSpace(content[:max])
	}
	return content
}

func (s *Seeder) createUsers(count int) ([]models.User, error) {
	// All seed users share one password so fixtures stay log-in-able.
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username:   s.generateUsername(i),
			Password:   string(hashedPassword),
			ProfileBio: clip(gofakeit.Sentence(8), 500),
			ProfileURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
		}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", user.Username, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func (s *Seeder) createFollows(users []models.User) error {
	for i := range users {
		follows := s.rand.Intn(5)
		for j := 0; j < follows; j++ {
			target := &users[s.rand.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			err := s.db.Model(target).Association("FollowedBy").Append(&users[i])
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rand.Intn(len(users))]
		post := models.Post{
			Content:  clip(gofakeit.Paragraph(1, 3, 8, " "), 500),
			AuthorID: author.ID,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}

		likes := s.rand.Intn(4)
		for j := 0; j < likes; j++ {
			liker := &users[s.rand.Intn(len(users))]
			if err := s.db.Model(&post).Association("UsersThatLiked").Append(liker); err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) createComments(users []models.User, posts []models.Post) error {
	for i := range posts {
		comments := s.rand.Intn(4)
		var parentID *uint
		for j := 0; j < comments; j++ {
			author := users[s.rand.Intn(len(users))]
			comment := models.Comment{
				Content:         clip(gofakeit.Sentence(10), 250),
				AuthorID:        author.ID,
				PostID:          posts[i].ID,
				ParentCommentID: parentID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
			// roughly half the comments thread under the first one
			if j == 0 && s.rand.Intn(2) == 0 {
				parentID = &comment.ID
			}
		}
	}
	return nil
}

func (s *Seeder) createChats(users []models.User) ([]models.Chat, error) {
	if len(users) < 2 {
		return nil, nil
	}

	numChats := len(users) / 3
	chats := make([]models.Chat, 0, numChats)
	for i := 0; i < numChats; i++ {
		size := 2 + s.rand.Intn(3)
		seen := make(map[uint]struct{}, size)
		members := make([]*models.User, 0, size)
		for len(members) < size {
			user := &users[s.rand.Intn(len(users))]
			if _, dup := seen[user.ID]; dup {
				continue
			}
			seen[user.ID] = struct{}{}
			members = append(members, user)
		}

		chat := models.Chat{
			Name:  gofakeit.HipsterWord(),
			Users: members,
		}
		if err := s.db.Create(&chat).Error; err != nil {
			return nil, err
		}

		numMessages := s.rand.Intn(6)
		for j := 0; j < numMessages; j++ {
			msg := models.Message{
				Content:  clip(gofakeit.Sentence(8), 200),
				AuthorID: members[s.rand.Intn(len(members))].ID,
				ChatID:   chat.ID,
			}
			if err := s.db.Create(&msg).Error; err != nil {
				return nil, err
			}
		}
		chats = append(chats, chat)
	}
	return chats, nil
}
