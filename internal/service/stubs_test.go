package service

import (
	"context"
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

// publisherFunc adapts a function to the EventPublisher interface.
type publisherFunc func(ctx context.Context, event string, payload any)

func (f publisherFunc) Publish(ctx context.Context, event string, payload any) {
	f(ctx, event, payload)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn     func(context.Context, uint, int, int, uint) ([]*models.Post, int64, error)
	listByCommunityFn func(context.Context, uint, int, int, uint, string, bool) ([]*models.Post, int64, error)
	searchFn          func(context.Context, string, int, int, uint) ([]*models.Post, int64, error)
	updateFn          func(context.Context, *models.Post) error
	updateStatusFn    func(context.Context, uint, models.PostStatus) error
	setPinnedFn       func(context.Context, uint, bool) error
	incrementViewFn   func(context.Context, uint) error
	purgeFn           func(context.Context, uint) error
	resolveTagsFn     func(context.Context, []string) ([]models.Tag, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, page, limit int, currentUserID uint) ([]*models.Post, int64, error) {
	return s.getByUserIDFn(ctx, userID, page, limit, currentUserID)
}
func (s *postRepoStub) ListByCommunity(ctx context.Context, communityID uint, page, limit int, currentUserID uint, sort string, includeHidden bool) ([]*models.Post, int64, error) {
	return s.listByCommunityFn(ctx, communityID, page, limit, currentUserID, sort, includeHidden)
}
func (s *postRepoStub) Search(ctx context.Context, query string, page, limit int, currentUserID uint) ([]*models.Post, int64, error) {
	return s.searchFn(ctx, query, page, limit, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *postRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewFn(ctx, id)
}
func (s *postRepoStub) Purge(ctx context.Context, id uint) error {
	return s.purgeFn(ctx, id)
}
func (s *postRepoStub) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.resolveTagsFn(ctx, names)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, Status: models.PostStatusActive}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByCommunityFn: func(_ context.Context, _ uint, _, _ int, _ uint, _ string, _ bool) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		updateStatusFn:  func(_ context.Context, _ uint, _ models.PostStatus) error { return nil },
		setPinnedFn:     func(_ context.Context, _ uint, _ bool) error { return nil },
		incrementViewFn: func(_ context.Context, _ uint) error { return nil },
		purgeFn:         func(_ context.Context, _ uint) error { return nil },
		resolveTagsFn:   func(_ context.Context, _ []string) ([]models.Tag, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByPostFn   func(context.Context, uint, uint) ([]*models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	updateStatusFn func(context.Context, uint, models.CommentStatus) error
	purgeFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID, currentUserID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, currentUserID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, id uint, status models.CommentStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *commentRepoStub) Purge(ctx context.Context, id uint) error {
	return s.purgeFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusActive}, nil
		},
		listByPostFn:   func(_ context.Context, _, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		updateStatusFn: func(_ context.Context, _ uint, _ models.CommentStatus) error { return nil },
		purgeFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByNicknameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getByNicknameFn(ctx, nickname)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Nickname: "member", Role: models.RoleMember}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByNicknameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	getFn       func(context.Context, uint, models.VoteTarget, uint) (*models.Vote, error)
	setFn       func(context.Context, *models.Vote) error
	recomputeFn func(context.Context, models.VoteTarget, uint) (int, error)
}

func (s *voteRepoStub) Get(ctx context.Context, userID uint, targetType models.VoteTarget, targetID uint) (*models.Vote, error) {
	return s.getFn(ctx, userID, targetType, targetID)
}
func (s *voteRepoStub) Set(ctx context.Context, vote *models.Vote) error {
	return s.setFn(ctx, vote)
}
func (s *voteRepoStub) RecomputeVoteCount(ctx context.Context, targetType models.VoteTarget, targetID uint) (int, error) {
	return s.recomputeFn(ctx, targetType, targetID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		getFn: func(_ context.Context, _ uint, _ models.VoteTarget, _ uint) (*models.Vote, error) {
			return nil, nil
		},
		setFn:       func(_ context.Context, _ *models.Vote) error { return nil },
		recomputeFn: func(_ context.Context, _ models.VoteTarget, _ uint) (int, error) { return 0, nil },
	}
}

// communityRepoStub is a stub for repository.CommunityRepository.
type communityRepoStub struct {
	createFn       func(context.Context, *models.Community) error
	getByIDFn      func(context.Context, uint) (*models.Community, error)
	getBySlugFn    func(context.Context, string) (*models.Community, error)
	listFn         func(context.Context) ([]models.Community, error)
	listByStatusFn func(context.Context, models.CommunityStatus) ([]models.Community, error)
	updateFn       func(context.Context, *models.Community) error
}

func (s *communityRepoStub) Create(ctx context.Context, community *models.Community) error {
	return s.createFn(ctx, community)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *communityRepoStub) List(ctx context.Context) ([]models.Community, error) {
	return s.listFn(ctx)
}
func (s *communityRepoStub) ListByStatus(ctx context.Context, status models.CommunityStatus) ([]models.Community, error) {
	return s.listByStatusFn(ctx, status)
}
func (s *communityRepoStub) Update(ctx context.Context, community *models.Community) error {
	return s.updateFn(ctx, community)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn: func(_ context.Context, _ *models.Community) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Community, error) {
			return &models.Community{ID: id, Status: models.CommunityStatusActive}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Community, error) {
			return &models.Community{ID: 1, Slug: slug, Status: models.CommunityStatusActive}, nil
		},
		listFn:         func(_ context.Context) ([]models.Community, error) { return nil, nil },
		listByStatusFn: func(_ context.Context, _ models.CommunityStatus) ([]models.Community, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Community) error { return nil },
	}
}

// promotionRepoStub is a stub for repository.PromotionRepository.
type promotionRepoStub struct {
	createFn     func(context.Context, *models.Promotion) error
	getByIDFn    func(context.Context, uint) (*models.Promotion, error)
	listActiveFn func(context.Context, models.PromotionPlacement) ([]models.Promotion, error)
	listFn       func(context.Context) ([]models.Promotion, error)
	updateFn     func(context.Context, *models.Promotion) error
	deleteFn     func(context.Context, uint) error
}

func (s *promotionRepoStub) Create(ctx context.Context, promo *models.Promotion) error {
	return s.createFn(ctx, promo)
}
func (s *promotionRepoStub) GetByID(ctx context.Context, id uint) (*models.Promotion, error) {
	return s.getByIDFn(ctx, id)
}
func (s *promotionRepoStub) ListActive(ctx context.Context, placement models.PromotionPlacement) ([]models.Promotion, error) {
	return s.listActiveFn(ctx, placement)
}
func (s *promotionRepoStub) List(ctx context.Context) ([]models.Promotion, error) {
	return s.listFn(ctx)
}
func (s *promotionRepoStub) Update(ctx context.Context, promo *models.Promotion) error {
	return s.updateFn(ctx, promo)
}
func (s *promotionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPromotionRepo() *promotionRepoStub {
	return &promotionRepoStub{
		createFn:     func(_ context.Context, _ *models.Promotion) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Promotion, error) { return &models.Promotion{ID: id}, nil },
		listActiveFn: func(_ context.Context, _ models.PromotionPlacement) ([]models.Promotion, error) { return nil, nil },
		listFn:       func(_ context.Context) ([]models.Promotion, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Promotion) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn        func(context.Context, *models.Report) error
	getByIDFn       func(context.Context, uint) (*models.Report, error)
	listByStatusFn  func(context.Context, models.ReportStatus, int, int) ([]models.Report, int64, error)
	updateStatusFn  func(context.Context, uint, models.ReportStatus) error
	hasOpenReportFn func(context.Context, uint, models.VoteTarget, uint) (bool, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) ListByStatus(ctx context.Context, status models.ReportStatus, page, limit int) ([]models.Report, int64, error) {
	return s.listByStatusFn(ctx, status, page, limit)
}
func (s *reportRepoStub) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *reportRepoStub) HasOpenReport(ctx context.Context, reporterID uint, targetType models.VoteTarget, targetID uint) (bool, error) {
	return s.hasOpenReportFn(ctx, reporterID, targetType, targetID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn:       func(_ context.Context, _ *models.Report) error { return nil },
		getByIDFn:      func(_ context.Context, id uint) (*models.Report, error) { return &models.Report{ID: id}, nil },
		listByStatusFn: func(_ context.Context, _ models.ReportStatus, _, _ int) ([]models.Report, int64, error) { return nil, 0, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ models.ReportStatus) error { return nil },
		hasOpenReportFn: func(_ context.Context, _ uint, _ models.VoteTarget, _ uint) (bool, error) {
			return false, nil
		},
	}
}
