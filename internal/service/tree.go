// Package service contains the business logic layer.
package service

import "queentouch/internal/models"

// BuildCommentTree assembles a flat comment list into a forest of root
// comments with nested replies. Input order is preserved at every level.
//
// A reply whose parent is missing from the list (deleted mid-thread or
// orphaned by the one-level delete cascade) is promoted to a root instead
// of being dropped, so no surviving comment ever disappears from a thread.
func BuildCommentTree(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok || parent.ID == c.ID {
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}
	return roots
}

// CountCommentTree returns the total number of comments in a forest,
// replies included.
func CountCommentTree(roots []*models.Comment) int {
	total := 0
	for _, c := range roots {
		total += 1 + CountCommentTree(c.Replies)
	}
	return total
}
