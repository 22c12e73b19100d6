package controller

import (
	"errors"
	"net/http"

	"github.com/resona/server/internal/repository/user"
	"github.com/resona/server/internal/service"
	"github.com/resona/server/pkg/rest"
)

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (c controller) register(w http.ResponseWriter, r *http.Request) {
	var req registerInput
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"message": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	authResp, err := c.service.RegisterUser(r.Context(), &service.RegisterUserParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"message": "Username already exists."})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to register user", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Server error during registration."})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"token": authResp.Token, "user": authResp.User})
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c controller) login(w http.ResponseWriter, r *http.Request) {
	var req loginInput
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"message": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	authResp, err := c.service.LoginUser(r.Context(), &service.LoginUserParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"message": "Invalid credentials."})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to login user", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Server error during login."})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"token": authResp.Token, "user": authResp.User})
}

func (c controller) getAllData(w http.ResponseWriter, r *http.Request) {
	userId := c.getUserIdFromCtx(r.Context())

	allData, err := c.service.GetAllData(r.Context(), userId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get user data", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Error fetching user data."})
		return
	}

	rest.WriteJSON(w, http.StatusOK, allData)
}

type setLikeInput struct {
	SongId string `json:"songId" validate:"required"`
	Like   bool   `json:"like"`
}

func (c controller) setLike(w http.ResponseWriter, r *http.Request) {
	var req setLikeInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"message": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.service.SetLike(r.Context(), &service.SetLikeParams{
		UserId: c.getUserIdFromCtx(r.Context()),
		SongId: req.SongId,
		Like:   req.Like,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to set like", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Could not update liked songs."})
		return
	}

	if req.Like {
		rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"message": "Song liked."})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "Song unliked."})
}

type createPlaylistInput struct {
	PlaylistName string `json:"playlistName" validate:"required,max=64"`
}

func (c controller) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"message": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.service.CreatePlaylist(r.Context(), &service.CreatePlaylistParams{
		UserId: c.getUserIdFromCtx(r.Context()),
		Name:   req.PlaylistName,
	}); err != nil {
		if errors.Is(err, user.ErrPlaylistAlreadyExists) {
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"message": "A playlist with that name already exists."})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to create playlist", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Server error creating playlist."})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"name": req.PlaylistName, "songs": []string{}})
}

type addPlaylistSongInput struct {
	PlaylistName string `json:"playlistName" validate:"required"`
	SongId       string `json:"songId" validate:"required"`
}

func (c controller) addPlaylistSong(w http.ResponseWriter, r *http.Request) {
	var req addPlaylistSongInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"message": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.service.AddPlaylistSong(r.Context(), &service.AddPlaylistSongParams{
		UserId:       c.getUserIdFromCtx(r.Context()),
		PlaylistName: req.PlaylistName,
		SongId:       req.SongId,
	}); err != nil {
		if errors.Is(err, user.ErrPlaylistNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"message": "Playlist not found."})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to add song to playlist", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"message": "Server error adding song."})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"message": "Song added to playlist."})
}
