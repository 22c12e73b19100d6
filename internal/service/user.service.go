package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/resona/server/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

type AuthUser struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
}

type AuthResponse struct {
	Token string
	User  AuthUser
}

type RegisterUserParams struct {
	Username string
	Password string
}

func (s service) RegisterUser(ctx context.Context, params *RegisterUserParams) (AuthResponse, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userId := uuid.NewString()
	if err := s.userRepo.SetUser(ctx, &user.SetUserParams{
		Id:           userId,
		Username:     params.Username,
		PasswordHash: string(passwordHash),
	}); err != nil {
		if errors.Is(err, user.ErrUsernameAlreadyExists) {
			return AuthResponse{}, ErrUsernameTaken
		}

		return AuthResponse{}, fmt.Errorf("failed to set user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", userId)

	token, err := s.generateJWT(userId, params.Username)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return AuthResponse{
		Token: token,
		User:  AuthUser{UserId: userId, Username: params.Username},
	}, nil
}

type LoginUserParams struct {
	Username string
	Password string
}

func (s service) LoginUser(ctx context.Context, params *LoginUserParams) (AuthResponse, error) {
	u, err := s.userRepo.GetUserByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}

		return AuthResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(params.Password)); err != nil {
		return AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.generateJWT(u.Id, u.Username)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return AuthResponse{
		Token: token,
		User:  AuthUser{UserId: u.Id, Username: u.Username},
	}, nil
}

type AllDataResponse struct {
	LikedSongs    []string            `json:"likedSongs"`
	UserPlaylists map[string][]string `json:"userPlaylists"`
}

func (s service) GetAllData(ctx context.Context, userId string) (AllDataResponse, error) {
	likedSongs, err := s.userRepo.GetLikedSongs(ctx, userId)
	if err != nil {
		return AllDataResponse{}, fmt.Errorf("failed to get liked songs: %w", err)
	}

	playlists, err := s.userRepo.GetPlaylists(ctx, userId)
	if err != nil {
		return AllDataResponse{}, fmt.Errorf("failed to get playlists: %w", err)
	}

	if likedSongs == nil {
		likedSongs = []string{}
	}

	return AllDataResponse{
		LikedSongs:    likedSongs,
		UserPlaylists: playlists,
	}, nil
}

type SetLikeParams struct {
	UserId string
	SongId string
	Like   bool
}

func (s service) SetLike(ctx context.Context, params *SetLikeParams) error {
	if params.Like {
		if err := s.userRepo.AddLikedSong(ctx, params.UserId, params.SongId); err != nil {
			return fmt.Errorf("failed to like song: %w", err)
		}

		return nil
	}

	if err := s.userRepo.RemoveLikedSong(ctx, params.UserId, params.SongId); err != nil {
		return fmt.Errorf("failed to unlike song: %w", err)
	}

	return nil
}

type CreatePlaylistParams struct {
	UserId string
	Name   string
}

func (s service) CreatePlaylist(ctx context.Context, params *CreatePlaylistParams) error {
	return s.userRepo.CreatePlaylist(ctx, params.UserId, params.Name)
}

type AddPlaylistSongParams struct {
	UserId       string
	PlaylistName string
	SongId       string
}

func (s service) AddPlaylistSong(ctx context.Context, params *AddPlaylistSongParams) error {
	return s.userRepo.AddSongToPlaylist(ctx, params.UserId, params.PlaylistName, params.SongId)
}
