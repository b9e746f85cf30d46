package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/storage"
)

type LikesHandler struct {
	store *storage.LikeStore
}

func NewLikesHandler(store *storage.LikeStore) *LikesHandler {
	return &LikesHandler{store: store}
}

type likeRequest struct {
	GameModeID string `json:"gameModeId"`
	UserID     string `json:"userId"`
}

// AddLike handles POST /api/likes.
func (h *LikesHandler) AddLike(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GameModeID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "gameModeId and userId are required"})
		return
	}

	if err := h.store.AddLike(req.GameModeID, req.UserID); err != nil {
		if errors.Is(err, storage.ErrAlreadyLiked) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Already liked"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("add like")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	count, err := h.store.GetLikeCount(req.GameModeID)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("count likes")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likeCount": count, "userLiked": true})
}

// RemoveLike handles DELETE /api/likes/:gameModeId.
func (h *LikesHandler) RemoveLike(c *gin.Context) {
	gameModeID := c.Param("gameModeId")

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
		return
	}

	if err := h.store.RemoveLike(gameModeID, req.UserID); err != nil {
		if errors.Is(err, storage.ErrLikeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Like not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("remove like")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	count, err := h.store.GetLikeCount(gameModeID)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("count likes")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likeCount": count, "userLiked": false})
}

// GetDetails handles GET /api/likes/:gameModeId.
func (h *LikesHandler) GetDetails(c *gin.Context) {
	details, err := h.store.GetGameModeDetails(c.Param("gameModeId"), c.Query("userId"))
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("game mode details")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, details)
}

// ListGameModes handles GET /api/games.
func (h *LikesHandler) ListGameModes(c *gin.Context) {
	games, err := h.store.GetAllGameModes(c.Query("userId"))
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list game modes")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}
