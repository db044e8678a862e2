package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/cppla/contentcorner/models"
)

// ProfileUpdate carries a profile edit. RemoveAvatar and a new avatar file
// are mutually exclusive; with neither, the current picture is kept.
type ProfileUpdate struct {
	ID           uint
	Username     string
	Description  string
	RemoveAvatar bool
}

// FetchUser loads a user's public profile.
func (c *Client) FetchUser(ctx context.Context, id uint) (*models.UserProfile, error) {
	return getJSON[*models.UserProfile](ctx, c, userByID(id))
}

// UpdateUser saves profile changes, optionally replacing or removing the
// avatar image.
func (c *Client) UpdateUser(ctx context.Context, update ProfileUpdate, avatar *FileAttachment) (*models.UserProfile, error) {
	username := strings.TrimSpace(update.Username)
	if username == "" {
		return nil, &ValidationError{Message: "username cannot be empty"}
	}
	fields := map[string]string{
		"id":          strconv.FormatUint(uint64(update.ID), 10),
		"username":    username,
		"description": strings.TrimSpace(update.Description),
	}
	if update.RemoveAvatar {
		if avatar != nil {
			return nil, &ValidationError{Message: "cannot remove and upload an avatar at the same time"}
		}
		fields["remove_profile_picture"] = "1"
	}
	if avatar != nil {
		avatar.Field = "profile_picture"
	}
	return sendForm[*models.UserProfile](ctx, c, routeUser, fields, avatar)
}
