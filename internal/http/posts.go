package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnect/internal/service"
)

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) createPost(c *gin.Context) {
	var req service.TextInput
	if !h.bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
}

func (h *Handler) likePost(c *gin.Context) {
	likes, err := h.posts.Like(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(likes))
}

func (h *Handler) unlikePost(c *gin.Context) {
	likes, err := h.posts.Unlike(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(likes))
}

func (h *Handler) addComment(c *gin.Context) {
	var req service.TextInput
	if !h.bindJSON(c, &req) {
		return
	}

	comments, err := h.posts.AddComment(c.Request.Context(), callerID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(comments))
}

func (h *Handler) deleteComment(c *gin.Context) {
	comments, err := h.posts.DeleteComment(c.Request.Context(), callerID(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(comments))
}
