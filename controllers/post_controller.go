package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fmejia/bloggo/models"
	"github.com/fmejia/bloggo/render"
	"github.com/fmejia/bloggo/session"
	"github.com/fmejia/bloggo/store"
	"github.com/fmejia/bloggo/utils"
)

const recentPostLimit = 10

// PostController manages posts, comments and votes.
type PostController struct {
	posts    *store.PostStore
	sessions *session.Manager
	view     render.Renderer
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *store.PostStore, sessions *session.Manager, view render.Renderer) *PostController {
	return &PostController{posts: posts, sessions: sessions, view: view}
}

// postDetail is the cached shape of a post page.
type postDetail struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// Home lists the most recent posts. The greeting username is a display-only
// cookie read, gated on full verification first.
func (p *PostController) Home(ctx *gin.Context) {
	var username string
	if p.sessions.IsAuthenticated(ctx) {
		username = p.sessions.DisplayUsername(ctx)
	}

	var posts []models.Post
	if !utils.CacheGetJSON("cache:posts:recent", &posts) {
		var err error
		posts, err = p.posts.ListRecent(recentPostLimit)
		if err != nil {
			utils.Sugar.Errorf("list recent posts: %v", err)
			ctx.String(http.StatusInternalServerError, "something went wrong")
			return
		}
		utils.CacheSetJSON("cache:posts:recent", posts, time.Hour)
	}

	p.view.Render(ctx, http.StatusOK, "home.html", gin.H{
		"username": username,
		"posts":    posts,
	})
}

// NewPostPage renders the post composer.
func (p *PostController) NewPostPage(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}
	p.view.Render(ctx, http.StatusOK, "new-post.html", gin.H{"username": id.Username})
}

// CreatePost validates and stores a new post, then redirects to it. Content
// is sanitized and stored with line breaks translated to <br> markup.
func (p *PostController) CreatePost(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	title := ctx.PostForm("title")
	content := ctx.PostForm("content")

	params := gin.H{"username": id.Username, "title": title, "content": content}
	haveError := false
	if !utils.ValidTitle(title) {
		params["error_title"] = "Title is too small"
		haveError = true
	}
	if !utils.ValidContent(content) {
		params["error_content"] = "Content is too small"
		haveError = true
	}
	if haveError {
		p.view.Render(ctx, http.StatusOK, "new-post.html", params)
		return
	}

	post, err := p.posts.Create(id.UserID, id.Username, utils.Sanitize(strings.TrimSpace(title)), utils.FormatContent(content))
	if err != nil {
		utils.Sugar.Errorf("create post: %v", err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	utils.InvalidateByPrefix("cache:posts:recent")
	ctx.Redirect(http.StatusFound, "/articles/"+strconv.FormatUint(uint64(post.ID), 10))
}

// ShowPost renders a post with its comments. Usernames shown here are
// display-only cookie reads.
func (p *PostController) ShowPost(ctx *gin.Context) {
	rawID := ctx.Param("id")

	var detail postDetail
	if !utils.CacheGetJSON("cache:post:detail:"+rawID, &detail) {
		post, err := p.posts.Get(rawID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				render.NotFound(ctx)
				return
			}
			utils.Sugar.Errorf("load post %s: %v", rawID, err)
			ctx.String(http.StatusInternalServerError, "something went wrong")
			return
		}
		comments, err := p.posts.CommentsForPost(post.ID)
		if err != nil {
			utils.Sugar.Errorf("load comments for post %s: %v", rawID, err)
			ctx.String(http.StatusInternalServerError, "something went wrong")
			return
		}
		detail = postDetail{Post: *post, Comments: comments}
		utils.CacheSetJSON("cache:post:detail:"+rawID, detail, time.Hour)
	}

	p.view.Render(ctx, http.StatusOK, "post.html", gin.H{
		"post":     detail.Post,
		"comments": detail.Comments,
		"username": p.sessions.DisplayUsername(ctx),
		"user_id":  displayUserID(ctx),
	})
}

// EditPostPage renders the edit form with the stored content translated back
// to plain line breaks.
func (p *PostController) EditPostPage(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	post, err := p.loadOwnedPost(ctx, ctx.Query("post_id"), id)
	if err != nil {
		return
	}
	post.Content = utils.ReformatContent(post.Content)
	p.view.Render(ctx, http.StatusOK, "edit-post.html", gin.H{"post": post, "username": id.Username})
}

// UpdatePost applies an owner's edit to title and content.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	rawID := ctx.PostForm("post_id")
	post, err := p.loadOwnedPost(ctx, rawID, id)
	if err != nil {
		return
	}

	title := ctx.PostForm("title")
	content := ctx.PostForm("content")
	params := gin.H{"post": post, "username": id.Username, "title": title, "content": content}
	haveError := false
	if !utils.ValidTitle(title) {
		params["error_title"] = "Title is too small"
		haveError = true
	}
	if !utils.ValidContent(content) {
		params["error_content"] = "Content is too small"
		haveError = true
	}
	if haveError {
		p.view.Render(ctx, http.StatusOK, "edit-post.html", params)
		return
	}

	post.Title = utils.Sanitize(strings.TrimSpace(title))
	post.Content = utils.FormatContent(content)
	if err := p.posts.Update(post); err != nil {
		utils.Sugar.Errorf("update post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	utils.InvalidateByPrefix("cache:posts:recent")
	utils.InvalidateByPrefix("cache:post:detail:" + rawID)
	ctx.Redirect(http.StatusFound, "/articles/"+rawID)
}

// DeletePost removes an owner's post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	rawID := ctx.Query("post_id")
	post, err := p.loadOwnedPost(ctx, rawID, id)
	if err != nil {
		return
	}

	if err := p.posts.Delete(post); err != nil {
		utils.Sugar.Errorf("delete post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	utils.InvalidateByPrefix("cache:posts:recent")
	utils.InvalidateByPrefix("cache:post:detail:" + rawID)
	ctx.Redirect(http.StatusFound, "/")
}

// CreateComment attaches a comment to a post and returns to it.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, ok := p.sessions.Authenticate(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	rawID := strings.TrimSpace(ctx.PostForm("post_id"))
	post, err := p.posts.Get(rawID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.NotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	content := utils.Sanitize(ctx.PostForm("comment"))
	if !utils.ValidContent(content) {
		p.renderPostWithError(ctx, post, "Comments can't be empty")
		return
	}

	if _, err := p.posts.AddComment(post.ID, id.UserID, id.Username, content); err != nil {
		utils.Sugar.Errorf("add comment to post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + rawID)
	ctx.Redirect(http.StatusFound, "/articles/"+rawID)
}

// UpVote casts an up-vote, subject to the per-post 24h window.
func (p *PostController) UpVote(ctx *gin.Context) {
	p.vote(ctx, models.VoteUp)
}

// DownVote casts a down-vote, subject to the same window.
func (p *PostController) DownVote(ctx *gin.Context) {
	p.vote(ctx, models.VoteDown)
}

func (p *PostController) vote(ctx *gin.Context, dir models.VoteDirection) {
	if !p.sessions.IsAuthenticated(ctx) {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	rawID := ctx.Query("post_id")
	post, err := p.posts.Get(rawID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.NotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	err = p.posts.ApplyVote(post.ID, dir, time.Now().UTC())
	switch {
	case err == nil:
		utils.InvalidateByPrefix("cache:posts:recent")
		utils.InvalidateByPrefix("cache:post:detail:" + rawID)
		ctx.Redirect(http.StatusFound, "/articles/"+rawID)
	case errors.Is(err, store.ErrVoteThrottled):
		// Same page, annotated; counters untouched.
		p.renderPostWithError(ctx, post, "You already voted today")
	case errors.Is(err, store.ErrNotFound):
		render.NotFound(ctx)
	default:
		utils.Sugar.Errorf("vote on post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
	}
}

// loadOwnedPost resolves a post and enforces ownership. On a miss it writes
// the 404; on an ownership mismatch it redirects to the article without
// mutating anything or revealing more than the public page already does.
func (p *PostController) loadOwnedPost(ctx *gin.Context, rawID string, id session.Identity) (*models.Post, error) {
	post, err := p.posts.Get(rawID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.NotFound(ctx)
			return nil, err
		}
		utils.Sugar.Errorf("load post %s: %v", rawID, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return nil, err
	}
	if !session.OwnsPost(post, id) {
		ctx.Redirect(http.StatusFound, "/articles/"+strconv.FormatUint(uint64(post.ID), 10))
		ctx.Abort()
		return nil, store.ErrNotFound
	}
	return post, nil
}

func (p *PostController) renderPostWithError(ctx *gin.Context, post *models.Post, msg string) {
	comments, err := p.posts.CommentsForPost(post.ID)
	if err != nil {
		utils.Sugar.Errorf("load comments for post %d: %v", post.ID, err)
		comments = nil
	}
	p.view.Render(ctx, http.StatusOK, "post.html", gin.H{
		"post":     post,
		"comments": comments,
		"username": p.sessions.DisplayUsername(ctx),
		"user_id":  displayUserID(ctx),
		"error":    msg,
	})
}

// displayUserID is the display-only counterpart of DisplayUsername.
func displayUserID(ctx *gin.Context) string {
	token, err := ctx.Cookie(session.CookieUserID)
	if err != nil {
		return ""
	}
	return session.Value(token)
}
