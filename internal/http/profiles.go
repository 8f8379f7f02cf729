package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnect/internal/domain"
	"devconnect/internal/service"
)

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = profileToResponse(profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) profileByUser(c *gin.Context) {
	profile, err := h.profiles.ByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) myProfile(c *gin.Context) {
	profile, err := h.profiles.Mine(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) upsertProfile(c *gin.Context) {
	var req service.ProfileInput
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), callerID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) addExperience(c *gin.Context) {
	var req service.ExperienceInput
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.AddExperience(c.Request.Context(), callerID(c), req)
	h.respondProfile(c, http.StatusCreated, profile, err)
}

func (h *Handler) deleteExperience(c *gin.Context) {
	profile, err := h.profiles.DeleteExperience(c.Request.Context(), callerID(c), c.Param("id"))
	h.respondProfile(c, http.StatusOK, profile, err)
}

func (h *Handler) addEducation(c *gin.Context) {
	var req service.EducationInput
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.AddEducation(c.Request.Context(), callerID(c), req)
	h.respondProfile(c, http.StatusCreated, profile, err)
}

func (h *Handler) deleteEducation(c *gin.Context) {
	profile, err := h.profiles.DeleteEducation(c.Request.Context(), callerID(c), c.Param("id"))
	h.respondProfile(c, http.StatusOK, profile, err)
}

func (h *Handler) respondProfile(c *gin.Context, status int, profile *domain.Profile, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, profileToResponse(*profile))
}

func (h *Handler) githubRepos(c *gin.Context) {
	repos, err := h.github.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repos)
}
