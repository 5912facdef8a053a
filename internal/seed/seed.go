package seed

import (
	"fmt"
	"log/slog"

	"bulag/internal/models"

	"gorm.io/gorm"
)

// Options configure a full demo-data seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo data: users, built-in communities,
// posts with an anonymity mix, threaded comments, votes, and promotions.
func Seed(db *gorm.DB, opts Options) error {
	slog.Info("starting database seeding", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	if err := Communities(db); err != nil {
		return fmt.Errorf("failed to seed built-in communities: %w", err)
	}

	factory := NewFactory(db, FactoryOptions{})

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	slog.Info("seeded users", "count", len(users))

	var communities []models.Community
	if err := db.Where("status = ?", models.CommunityStatusActive).Find(&communities).Error; err != nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}
	if len(users) == 0 || len(communities) == 0 {
		slog.Info("nothing to seed posts into")
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rng.Intn(len(users))]
		community := &communities[factory.rng.Intn(len(communities))]
		post, err := factory.CreatePost(author, community)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	slog.Info("seeded posts", "count", len(posts))

	if err := seedComments(factory, users, posts); err != nil {
		return err
	}
	if err := seedVotes(factory, users, posts); err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		if _, err := factory.CreatePromotion(); err != nil {
			return fmt.Errorf("failed to create promotion: %w", err)
		}
	}

	if err := recomputeVoteCounts(db); err != nil {
		return fmt.Errorf("failed to recompute vote counts: %w", err)
	}

	slog.Info("database seeding completed")
	return nil
}

// seedComments adds a few top-level comments per post and replies to some.
func seedComments(factory *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		topLevel := factory.rng.Intn(4)
		for i := 0; i < topLevel; i++ {
			commenter := users[factory.rng.Intn(len(users))]
			parent, err := factory.CreateComment(commenter, post)
			if err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}

			if factory.rng.Intn(2) == 0 {
				replier := users[factory.rng.Intn(len(users))]
				_, err := factory.CreateComment(replier, post, func(c *models.Comment) {
					c.ParentID = &parent.ID
				})
				if err != nil {
					return fmt.Errorf("failed to create reply: %w", err)
				}
			}
		}
	}
	return nil
}

// seedVotes casts at most one vote per (user, post) pair, skewed upward.
func seedVotes(factory *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			roll := factory.rng.Intn(10)
			var value int
			switch {
			case roll < 3:
				value = models.VoteUp
			case roll < 4:
				value = models.VoteDown
			default:
				continue
			}
			if err := factory.CreateVote(user, models.VoteTargetPost, post.ID, value); err != nil {
				return fmt.Errorf("failed to create vote: %w", err)
			}
		}
	}
	return nil
}

// recomputeVoteCounts rebuilds the denormalized vote_count columns from the
// votes table, the same aggregation the vote service maintains per cast.
func recomputeVoteCounts(db *gorm.DB) error {
	if err := db.Exec(`
UPDATE posts SET vote_count = COALESCE((
	SELECT SUM(value) FROM votes
	WHERE votes.target_type = 'post' AND votes.target_id = posts.id
), 0)`).Error; err != nil {
		return err
	}
	return db.Exec(`
UPDATE comments SET vote_count = COALESCE((
	SELECT SUM(value) FROM votes
	WHERE votes.target_type = 'comment' AND votes.target_id = comments.id
), 0)`).Error
}

func clearData(db *gorm.DB) error {
	slog.Info("clearing existing data")
	tables := []string{
		"votes", "reports", "media_attachments", "post_tags",
		"comments", "posts", "image_variants", "images",
		"promotions", "tags", "communities", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}
