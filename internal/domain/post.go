package domain

import "time"

// Like records that a user liked a post.
type Like struct {
	UserID string `json:"user"`
}

// Comment is embedded in its post and has no lifecycle of its own.
type Comment struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	AuthorID     string    `json:"user"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// Post is a user-authored entry with embedded likes and comments, newest first.
// AuthorName and AuthorAvatar are captured at creation and never refreshed.
type Post struct {
	ID           string
	Text         string
	AuthorID     string
	AuthorName   string
	AuthorAvatar string
	Likes        []Like
	Comments     []Comment
	CreatedAt    time.Time
}

// LikedBy reports whether userID already appears in the like list.
func (p *Post) LikedBy(userID string) bool {
	return p.likeIndex(userID) >= 0
}

// Like prepends a like for userID. At most one like per user is kept.
func (p *Post) Like(userID string) error {
	if p.LikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{UserID: userID}}, p.Likes...)
	return nil
}

// Unlike removes the first like made by userID.
func (p *Post) Unlike(userID string) error {
	idx := p.likeIndex(userID)
	if idx < 0 {
		return ErrNotLiked
	}
	p.Likes = append(p.Likes[:idx:idx], p.Likes[idx+1:]...)
	return nil
}

// AddComment prepends c to the comment list.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// RemoveComment deletes the comment with commentID, provided userID wrote it.
func (p *Post) RemoveComment(commentID, userID string) error {
	idx := -1
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCommentNotFound
	}
	if p.Comments[idx].AuthorID != userID {
		return ErrForbidden
	}
	p.Comments = append(p.Comments[:idx:idx], p.Comments[idx+1:]...)
	return nil
}

func (p *Post) likeIndex(userID string) int {
	for i := range p.Likes {
		if p.Likes[i].UserID == userID {
			return i
		}
	}
	return -1
}
