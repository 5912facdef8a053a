package service

import (
	"sort"

	"bulag/internal/models"
)

// DeletedCommentLabel is the author label rendered for deleted placeholders.
const DeletedCommentLabel = "[deleted]"

// Comment tree sort orders. Replies always sort oldest first regardless of
// the top-level order.
const (
	CommentSortOldest  = "oldest"
	CommentSortNewest  = "newest"
	CommentSortPopular = "popular"
)

// CommentNode is one rendered entry in a post's comment tree.
type CommentNode struct {
	*models.Comment
	AuthorDisplayName string         `json:"author_display_name"`
	IsOriginalPoster  bool           `json:"is_original_poster"`
	Replies           []*CommentNode `json:"replies"`
}

// BuildCommentTree assembles the flat comment list into a two-level tree for
// the given viewer.
//
// Hidden comments are omitted unless the viewer moderates; replies under an
// omitted or missing parent are promoted to top level so they stay readable.
// Deleted comments remain as placeholders with content and author scrubbed,
// keeping their replies anchored. Top-level ordering follows sortOrder;
// popular ranks by vote count with older comments winning ties. Replies
// always render oldest first. The input may arrive in any order.
func BuildCommentTree(comments []*models.Comment, post *models.Post, viewerIsModerator bool, sortOrder string) []*CommentNode {
	sorted := make([]*models.Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	visible := make(map[uint]*CommentNode, len(sorted))
	order := make([]*models.Comment, 0, len(sorted))

	for _, c := range sorted {
		if c.Status == models.CommentStatusHidden && !viewerIsModerator {
			continue
		}
		visible[c.ID] = newCommentNode(c, post)
		order = append(order, c)
	}

	var roots []*CommentNode
	for _, c := range order {
		node := visible[c.ID]
		if c.ParentID != nil {
			if parent, ok := visible[*c.ParentID]; ok && parent.ParentID == nil {
				parent.Replies = append(parent.Replies, node)
				continue
			}
			// Orphaned reply: parent hidden, purged or itself nested.
		}
		roots = append(roots, node)
	}

	// Replies inherit the oldest-first walk above, so only the roots need
	// re-sorting.
	switch sortOrder {
	case CommentSortNewest:
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		})
	case CommentSortPopular:
		sort.SliceStable(roots, func(i, j int) bool {
			if roots[i].VoteCount != roots[j].VoteCount {
				return roots[i].VoteCount > roots[j].VoteCount
			}
			return roots[i].CreatedAt.Before(roots[j].CreatedAt)
		})
	}

	for _, root := range roots {
		root.ReplyCount = len(root.Replies)
	}

	return roots
}

func newCommentNode(c *models.Comment, post *models.Post) *CommentNode {
	node := &CommentNode{
		Comment: c,
		Replies: []*CommentNode{},
	}

	if c.Status == models.CommentStatusDeleted {
		// Placeholder: keep position and replies, scrub everything else.
		scrubbed := *c
		scrubbed.Content = ""
		scrubbed.UserID = 0
		scrubbed.User = models.User{}
		node.Comment = &scrubbed
		node.AuthorDisplayName = DeletedCommentLabel
		return node
	}

	node.AuthorDisplayName = models.CommentAuthorDisplayName(c)
	if post != nil {
		node.IsOriginalPoster = models.IsOriginalPoster(c, post)
	}
	return node
}
