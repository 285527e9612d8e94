package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"microblog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// BuildUser constructs an unpersisted user with fake but plausible fields.
// The index keeps the unique name and email columns collision-free.
func (f *Factory) BuildUser(i int) *models.User {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	name := fmt.Sprintf("%s%d", strings.ToLower(first), i)

	return &models.User{
		Name:     name,
		Surname:  last,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: seedPasswordHash(),
	}
}

// CreateUsers persists count users. The first few are fixed accounts so
// developers always have known logins after a reseed.
func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashed := seedPasswordHash()

	if count >= 2 {
		baseUsers := []string{"alice", "test"}
		for _, name := range baseUsers {
			user := models.User{
				Name:     name,
				Surname:  "Seeded",
				Email:    fmt.Sprintf("%s@example.com", name),
				Password: hashed,
			}
			if err := f.db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user := f.BuildUser(i)
		if err := f.db.Create(user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", user.Name, err)
			continue
		}
		users = append(users, *user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// BuildPost constructs an unpersisted post by a random member of users,
// spread over the past 90 days so listings look lived-in.
func (f *Factory) BuildPost(users []models.User) *models.Post {
	user := users[f.r.Intn(len(users))]

	sentences := f.r.Intn(3) + 1
	post := &models.Post{
		Text:   gofakeit.Paragraph(1, sentences, 8, " "),
		UserID: user.ID,
	}

	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	return post
}

// CreatePosts persists count posts attributed to random users.
func (f *Factory) CreatePosts(users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed posts without users")
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		post := f.BuildPost(users)
		if err := f.db.Create(post).Error; err != nil {
			log.Printf("Failed to create post for user %d: %v", post.UserID, err)
			continue
		}
		posts = append(posts, *post)
	}

	return posts, nil
}
