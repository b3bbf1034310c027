// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"facet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes how much data the seeder produces.
type Options struct {
	Users           int
	FollowsPerUser  int
	RequestsPerUser int
	MaxDays         int
}

// Seeder populates the database with plausible users, per-context
// identities, follow edges, requests and favorites.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.Users <= 0 {
		opts.Users = 50
	}
	if opts.FollowsPerUser <= 0 {
		opts.FollowsPerUser = 5
	}
	if opts.RequestsPerUser <= 0 {
		opts.RequestsPerUser = 2
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes all seeded rows. Child tables go first so foreign keys
// never dangle.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"favorites", "friend_requests", "friends", "identities", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("✓ Cleared existing data")
	return nil
}

// Run seeds the full social mesh: users, identities, follows, requests
// (some accepted into mutual edges) and favorites.
func (s *Seeder) Run() error {
	users, err := s.createUsers()
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ Created %d users", len(users))

	identities, err := s.createIdentities(users)
	if err != nil {
		return fmt.Errorf("failed to create identities: %w", err)
	}
	log.Printf("✓ Created %d identities", len(identities))

	follows, err := s.createFollows(users, identities)
	if err != nil {
		return fmt.Errorf("failed to create follow edges: %w", err)
	}
	log.Printf("✓ Created %d follow edges", follows)

	pending, accepted, err := s.createRequests(identities)
	if err != nil {
		return fmt.Errorf("failed to create friend requests: %w", err)
	}
	log.Printf("✓ Created %d pending and %d accepted friend requests", pending, accepted)

	favorites, err := s.createFavorites(users, identities)
	if err != nil {
		return fmt.Errorf("failed to create favorites: %w", err)
	}
	log.Printf("✓ Created %d favorites", favorites)

	return nil
}

func (s *Seeder) pastTime() time.Time {
	daysBack := s.rand.Intn(s.opts.MaxDays)
	hoursBack := s.rand.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}

func (s *Seeder) createUsers() ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user := models.User{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Email:     fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password:  string(hashed),
			CreatedAt: s.pastTime(),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createIdentities gives every user a professional identity plus a random
// subset of the remaining contexts, so the one-per-context rule is visible
// in seeded data without every user owning all four.
func (s *Seeder) createIdentities(users []models.User) ([]models.Identity, error) {
	identities := make([]models.Identity, 0, len(users)*2)
	for i := range users {
		user := &users[i]
		legalName := user.FirstName + " " + user.LastName

		for _, contextType := range models.Contexts() {
			if contextType != models.ContextProfessional && s.rand.Intn(2) == 0 {
				continue
			}

			visibility := models.VisibilityPublic
			if s.rand.Intn(4) == 0 {
				visibility = models.VisibilityPrivate
			}

			identity := models.Identity{
				UserID:        user.ID,
				LegalName:     legalName,
				PreferredName: fmt.Sprintf("%s-%s-%d", gofakeit.Username(), contextType, user.ID),
				Nickname:      gofakeit.PetName(),
				Context:       contextType,
				Visibility:    visibility,
				CreatedAt:     s.pastTime(),
			}
			if err := s.db.Create(&identity).Error; err != nil {
				return nil, err
			}
			identities = append(identities, identity)
		}
	}
	return identities, nil
}

func (s *Seeder) createFollows(users []models.User, identities []models.Identity) (int, error) {
	created := 0
	for i := range users {
		for n := 0; n < s.opts.FollowsPerUser; n++ {
			target := identities[s.rand.Intn(len(identities))]
			if target.UserID == users[i].ID {
				continue
			}

			friend := models.Friend{
				UserID:           users[i].ID,
				FriendIdentityID: target.ID,
				Context:          target.Context,
				CreatedAt:        s.pastTime(),
			}
			err := s.db.Create(&friend).Error
			if err != nil {
				// Duplicate picks hit the unique edge index; skip them.
				continue
			}
			created++
		}
	}
	return created, nil
}

// createRequests sends requests between identities that share a context and
// accepts roughly half, materializing the mutual edges an accept produces.
func (s *Seeder) createRequests(identities []models.Identity) (pending, accepted int, err error) {
	byContext := make(map[models.ContextType][]models.Identity)
	for _, identity := range identities {
		byContext[identity.Context] = append(byContext[identity.Context], identity)
	}

	for _, peers := range byContext {
		if len(peers) < 2 {
			continue
		}
		attempts := len(peers) * s.opts.RequestsPerUser / 2
		for n := 0; n < attempts; n++ {
			sender := peers[s.rand.Intn(len(peers))]
			recipient := peers[s.rand.Intn(len(peers))]
			if sender.UserID == recipient.UserID {
				continue
			}

			request := models.FriendRequest{
				SenderUserID:        sender.UserID,
				SenderIdentityID:    sender.ID,
				RecipientUserID:     recipient.UserID,
				RecipientIdentityID: recipient.ID,
				Context:             sender.Context,
				Status:              models.FriendRequestStatusPending,
				CreatedAt:           s.pastTime(),
			}
			if err := s.db.Create(&request).Error; err != nil {
				continue
			}

			if s.rand.Intn(2) == 0 {
				pending++
				continue
			}

			// Accepting creates the two symmetric follow edges.
			request.Status = models.FriendRequestStatusAccepted
			if err := s.db.Save(&request).Error; err != nil {
				return pending, accepted, err
			}
			edges := []models.Friend{
				{UserID: sender.UserID, FriendIdentityID: recipient.ID, Context: request.Context, CreatedAt: request.CreatedAt},
				{UserID: recipient.UserID, FriendIdentityID: sender.ID, Context: request.Context, CreatedAt: request.CreatedAt},
			}
			for i := range edges {
				if err := s.db.Create(&edges[i]).Error; err != nil {
					// The follow phase may already have created one direction.
					continue
				}
			}
			accepted++
		}
	}
	return pending, accepted, nil
}

func (s *Seeder) createFavorites(users []models.User, identities []models.Identity) (int, error) {
	created := 0
	for i := range users {
		picks := s.rand.Intn(4)
		for n := 0; n < picks; n++ {
			target := identities[s.rand.Intn(len(identities))]
			if target.UserID == users[i].ID {
				continue
			}

			favorite := models.Favorite{
				UserID:     users[i].ID,
				IdentityID: target.ID,
				Context:    target.Context,
				CreatedAt:  s.pastTime(),
			}
			if err := s.db.Create(&favorite).Error; err != nil {
				continue
			}
			created++
		}
	}
	return created, nil
}
