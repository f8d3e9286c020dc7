package dto

import (
	"bandmate-api/modules/setlist/entity"
)

// ===================== Request DTOs =====================

type CreateSetlistRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateSetlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddSongRequest struct {
	Title           string `json:"title" validate:"required"`
	Artist          string `json:"artist"`
	SongKey         string `json:"song_key"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ReorderSongsRequest lists every song ID in the desired order.
type ReorderSongsRequest struct {
	SongIDs []string `json:"song_ids" validate:"required"`
}

// ===================== Response DTOs =====================

type SongResponse struct {
	ID              string `json:"id"`
	Position        int    `json:"position"`
	Title           string `json:"title"`
	Artist          string `json:"artist,omitempty"`
	SongKey         string `json:"song_key,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	AttachmentURL   string `json:"attachment_url,omitempty"`
}

type SetlistResponse struct {
	ID          string         `json:"id"`
	BandID      string         `json:"band_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Songs       []SongResponse `json:"songs"`
}

// ===================== Mapper Functions =====================

func ToSongResponse(song *entity.SetlistSong, attachmentURL string) SongResponse {
	resp := SongResponse{
		ID:            song.ID.String(),
		Position:      song.Position,
		Title:         song.Title,
		AttachmentURL: attachmentURL,
	}
	if song.Artist != nil {
		resp.Artist = *song.Artist
	}
	if song.SongKey != nil {
		resp.SongKey = *song.SongKey
	}
	if song.DurationSeconds != nil {
		resp.DurationSeconds = *song.DurationSeconds
	}
	return resp
}

func ToSetlistResponse(setlist *entity.Setlist, songs []SongResponse) *SetlistResponse {
	resp := &SetlistResponse{
		ID:     setlist.ID.String(),
		BandID: setlist.BandID.String(),
		Name:   setlist.Name,
		Songs:  songs,
	}
	if setlist.Description != nil {
		resp.Description = *setlist.Description
	}
	if resp.Songs == nil {
		resp.Songs = []SongResponse{}
	}
	return resp
}
