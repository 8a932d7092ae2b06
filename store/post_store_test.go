package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fmejia/bloggo/models"
)

func postColumns() []string {
	return []string{"id", "user_id", "author", "title", "content", "up_votes", "down_votes", "last_vote", "created_at", "updated_at"}
}

func TestPostStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO `posts`").
		WillReturnResult(sqlmock.NewResult(7, 1))

	s := NewPostStore(db)
	post, err := s.Create(3, "bob", "First", "hello")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID != 7 || post.UserID != 3 || post.Author != "bob" {
		t.Errorf("unexpected post: %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostStoreGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `posts` WHERE `posts`\\.`id` = \\?").
			WillReturnRows(sqlmock.NewRows(postColumns()).
				AddRow(7, 3, "bob", "First", "hello", 0, 0, nil, time.Now(), time.Now()))

		s := NewPostStore(db)
		post, err := s.Get("7")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if post.ID != 7 || post.Title != "First" {
			t.Errorf("unexpected post: %+v", post)
		}
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `posts` WHERE `posts`\\.`id` = \\?").
			WillReturnRows(sqlmock.NewRows(postColumns()))

		s := NewPostStore(db)
		if _, err := s.Get("99"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		db, mock := newMockDB(t)

		s := NewPostStore(db)
		if _, err := s.Get("abc"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
		// No query must reach the database for a malformed id.
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
}

func TestPostStoreListRecent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `posts` ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(postColumns()).
			AddRow(2, 1, "bob", "Newer", "b", 0, 0, nil, time.Now(), time.Now()).
			AddRow(1, 1, "bob", "Older", "a", 0, 0, nil, time.Now().Add(-time.Hour), time.Now()))

	s := NewPostStore(db)
	posts, err := s.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Title != "Newer" || posts[1].Title != "Older" {
		t.Errorf("order not preserved: %q, %q", posts[0].Title, posts[1].Title)
	}
}

func TestPostStoreComments(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO `comments`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT \\* FROM `comments` WHERE post_id = \\? ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "username", "content", "created_at"}).
			AddRow(5, 7, 3, "bob", "nice", time.Now()))

	s := NewPostStore(db)
	comment, err := s.AddComment(7, 3, "bob", "nice")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.ID != 5 || comment.PostID != 7 {
		t.Errorf("unexpected comment: %+v", comment)
	}

	comments, err := s.CommentsForPost(7)
	if err != nil {
		t.Fatalf("CommentsForPost: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "nice" {
		t.Errorf("unexpected comments: %+v", comments)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostStoreApplyVote(t *testing.T) {
	now := time.Now().UTC()

	t.Run("window open", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `posts` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewPostStore(db)
		if err := s.ApplyVote(7, models.VoteUp, now); err != nil {
			t.Fatalf("ApplyVote: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})

	t.Run("throttled", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `posts` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts` WHERE id = \\?").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

		s := NewPostStore(db)
		if err := s.ApplyVote(7, models.VoteDown, now); !errors.Is(err, ErrVoteThrottled) {
			t.Errorf("got %v, want ErrVoteThrottled", err)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `posts` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts` WHERE id = \\?").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		s := NewPostStore(db)
		if err := s.ApplyVote(99, models.VoteUp, now); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}
