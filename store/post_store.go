package store

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/fmejia/bloggo/models"
)

// PostStore persists posts and comments and applies vote mutations.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a PostStore over the given database handle.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create persists a new post for the given owner.
func (s *PostStore) Create(userID uint, author, title, content string) (*models.Post, error) {
	post := models.Post{
		UserID:  userID,
		Author:  author,
		Title:   title,
		Content: content,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Get resolves a post by its raw id string. Non-numeric ids and missing
// records both come back as ErrNotFound, never a crash.
func (s *PostStore) Get(rawID string) (*models.Post, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Update saves the mutable fields of a post.
func (s *PostStore) Update(post *models.Post) error {
	return s.db.Save(post).Error
}

// Delete removes a post.
func (s *PostStore) Delete(post *models.Post) error {
	return s.db.Delete(post).Error
}

// ListRecent returns at most limit posts, newest first.
func (s *PostStore) ListRecent(limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AddComment attaches an immutable comment to a post.
func (s *PostStore) AddComment(postID, userID uint, username, content string) (*models.Comment, error) {
	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		Username: username,
		Content:  content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CommentsForPost returns a post's comments in creation order.
func (s *PostStore) CommentsForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ApplyVote increments the counter for the given direction iff the post was
// never voted on or the window has fully elapsed. The eligibility test and the
// write happen in one conditional UPDATE, so two concurrent votes cannot both
// observe an open window and double-count. Zero rows affected means the post
// is either throttled or gone.
func (s *PostStore) ApplyVote(postID uint, dir models.VoteDirection, now time.Time) error {
	column := "up_votes"
	if dir == models.VoteDown {
		column = "down_votes"
	}
	cutoff := now.Add(-models.VoteWindow)

	res := s.db.Model(&models.Post{}).
		Where("id = ? AND (last_vote IS NULL OR last_vote < ?)", postID, cutoff).
		Updates(map[string]interface{}{
			column:      gorm.Expr(column + " + 1"),
			"last_vote": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVoteThrottled
	}
	return nil
}
