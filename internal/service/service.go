package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/resona/server/internal/repository/user"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrNotInRoom          = errors.New("not in a room")
	ErrAlreadyInRoom      = errors.New("already in a room")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type iRoomRepo interface {
	CreateRoom(memberId string) (string, error)
	AddMember(roomId, memberId string) error
	RemoveMember(memberId string) (roomId string, isRoomDeleted bool, err error)
	GetMemberIds(roomId string) ([]string, error)
	GetMemberRoomId(memberId string) (string, error)
	SetQueue(roomId string, queue []string) error
	AppendToQueue(roomId, songId string) error
}

type iConnRepo interface {
	Add(conn *websocket.Conn, memberId string) error
	RemoveByMemberId(memberId string) error
	GetConn(memberId string) (*websocket.Conn, error)
}

type iUserRepo interface {
	SetUser(context.Context, *user.SetUserParams) error
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	AddLikedSong(ctx context.Context, userId, songId string) error
	RemoveLikedSong(ctx context.Context, userId, songId string) error
	GetLikedSongs(ctx context.Context, userId string) ([]string, error)
	CreatePlaylist(ctx context.Context, userId, name string) error
	AddSongToPlaylist(ctx context.Context, userId, name, songId string) error
	GetPlaylists(ctx context.Context, userId string) (map[string][]string, error)
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	userRepo iUserRepo
	secret   string
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, userRepo iUserRepo, secret string, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		userRepo: userRepo,
		secret:   secret,
		logger:   logger,
	}
}
