// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bulag/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FactoryOptions tune how generated entities are built.
type FactoryOptions struct {
	// SkipBcrypt stores a plaintext password instead of hashing. Dev fast mode.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	// #nosec G404: weak randomness is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// randomCreatedAt spreads timestamps back over the configured window.
func (f *Factory) randomCreatedAt() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample member account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Nickname:    strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		CompanyName: gofakeit.Company(),
		Role:        models.RoleMember,
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCommunity constructs and persists an active interest community.
func (f *Factory) CreateCommunity(overrides ...func(*models.Community)) (*models.Community, error) {
	name := gofakeit.Company()
	community := &models.Community{
		Name:        name,
		Slug:        Slugify(name + fmt.Sprintf("-%d", gofakeit.Number(10, 99))),
		Description: gofakeit.Sentence(10),
		Kind:        models.CommunityKindInterest,
		Status:      models.CommunityStatusActive,
	}

	for _, override := range overrides {
		override(community)
	}

	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	return community, nil
}

// CreatePost constructs and persists a sample post in the given community.
// Roughly a third of generated posts are anonymous.
func (f *Factory) CreatePost(user *models.User, community *models.Community, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:      user.ID,
		CommunityID: community.ID,
		IsAnonymous: f.rng.Intn(3) == 0,
		Status:      models.PostStatusActive,
		ViewCount:   f.rng.Intn(500),
		CreatedAt:   f.randomCreatedAt(),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment on the provided post.
// Pass an override setting ParentID to create a reply.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:     gofakeit.Sentence(12),
		UserID:      user.ID,
		PostID:      post.ID,
		IsAnonymous: f.rng.Intn(4) == 0,
		Status:      models.CommentStatusActive,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote persists a vote from user on the given target. The caller is
// responsible for recomputing denormalized vote counts afterwards.
func (f *Factory) CreateVote(user *models.User, targetType models.VoteTarget, targetID uint, value int) error {
	vote := &models.Vote{
		UserID:     user.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Value:      value,
	}
	return f.db.Create(vote).Error
}

// CreatePromotion constructs and persists an active feed promotion.
func (f *Factory) CreatePromotion(overrides ...func(*models.Promotion)) (*models.Promotion, error) {
	promo := &models.Promotion{
		Title:     gofakeit.Company() + ": " + gofakeit.Sentence(4),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID()),
		TargetURL: gofakeit.URL(),
		Placement: models.PlacementFeed,
		IsActive:  true,
	}

	for _, override := range overrides {
		override(promo)
	}

	if err := f.db.Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Slugify lowercases a name and squeezes it into a valid community slug.
func Slugify(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if len(slug) > 24 {
		slug = strings.Trim(slug[:24], "-")
	}
	return slug
}
