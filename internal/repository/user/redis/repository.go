package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/resona/server/internal/repository/user"
)

type repo struct {
	rc *redis.Client
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{rc: rc}
}

func (r repo) getUserKey(userId string) string {
	return "user:" + userId
}

func (r repo) getUsernameKey(username string) string {
	return "username:" + username
}

func (r repo) getLikedKey(userId string) string {
	return "user:" + userId + ":liked"
}

func (r repo) getPlaylistSetKey(userId string) string {
	return "user:" + userId + ":playlists"
}

func (r repo) getPlaylistKey(userId, name string) string {
	return "user:" + userId + ":playlist:" + name
}

func (r repo) SetUser(ctx context.Context, params *user.SetUserParams) error {
	ok, err := r.rc.SetNX(ctx, r.getUsernameKey(params.Username), params.Id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrUsernameAlreadyExists
	}

	return r.rc.HSet(ctx, r.getUserKey(params.Id), map[string]any{
		"username":      params.Username,
		"password_hash": params.PasswordHash,
	}).Err()
}

func (r repo) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	userId, err := r.rc.Get(ctx, r.getUsernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user.User{}, user.ErrUserNotFound
		}

		return user.User{}, err
	}

	fields, err := r.rc.HGetAll(ctx, r.getUserKey(userId)).Result()
	if err != nil {
		return user.User{}, err
	}
	if len(fields) == 0 {
		return user.User{}, user.ErrUserNotFound
	}

	return user.User{
		Id:           userId,
		Username:     fields["username"],
		PasswordHash: fields["password_hash"],
	}, nil
}

func (r repo) AddLikedSong(ctx context.Context, userId, songId string) error {
	return r.rc.SAdd(ctx, r.getLikedKey(userId), songId).Err()
}

func (r repo) RemoveLikedSong(ctx context.Context, userId, songId string) error {
	return r.rc.SRem(ctx, r.getLikedKey(userId), songId).Err()
}

func (r repo) GetLikedSongs(ctx context.Context, userId string) ([]string, error) {
	return r.rc.SMembers(ctx, r.getLikedKey(userId)).Result()
}

func (r repo) CreatePlaylist(ctx context.Context, userId, name string) error {
	added, err := r.rc.SAdd(ctx, r.getPlaylistSetKey(userId), name).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return user.ErrPlaylistAlreadyExists
	}

	return nil
}

func (r repo) AddSongToPlaylist(ctx context.Context, userId, name, songId string) error {
	exists, err := r.rc.SIsMember(ctx, r.getPlaylistSetKey(userId), name).Result()
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrPlaylistNotFound
	}

	playlistKey := r.getPlaylistKey(userId, name)

	// duplicate adds are no-ops
	if err := r.rc.LPos(ctx, playlistKey, songId, redis.LPosArgs{}).Err(); err == nil {
		return nil
	} else if !errors.Is(err, redis.Nil) {
		return err
	}

	return r.rc.RPush(ctx, playlistKey, songId).Err()
}

func (r repo) GetPlaylists(ctx context.Context, userId string) (map[string][]string, error) {
	names, err := r.rc.SMembers(ctx, r.getPlaylistSetKey(userId)).Result()
	if err != nil {
		return nil, err
	}

	playlists := make(map[string][]string, len(names))
	for _, name := range names {
		songs, err := r.rc.LRange(ctx, r.getPlaylistKey(userId, name), 0, -1).Result()
		if err != nil {
			return nil, err
		}

		playlists[name] = songs
	}

	return playlists, nil
}
