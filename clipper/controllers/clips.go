// clipper/controllers/clips.go
package controllers

import (
	"context"

	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/psql/models"
)

// ClipController serves the read side: a user's saved clips.
type ClipController struct {
	clipDAO *dao.ClipDAO
}

func NewClipController(clipDAO *dao.ClipDAO) *ClipController {
	return &ClipController{clipDAO: clipDAO}
}

func (c *ClipController) ListClips(ctx context.Context, userID, limit int) ([]models.Clip, error) {
	return c.clipDAO.ListClipsByUser(ctx, userID, limit)
}

// GetClip returns nil when the clip doesn't exist or belongs to someone
// else; callers turn nil into a 404 either way.
func (c *ClipController) GetClip(ctx context.Context, userID int, id string) (*models.Clip, error) {
	clip, err := c.clipDAO.GetClipByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clip == nil || clip.UserID != userID {
		return nil, nil
	}
	return clip, nil
}
