package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/resona/server/internal/service"
	"github.com/resona/server/pkg/validator"
	"github.com/resona/server/pkg/wsrouter"
)

type iService interface {
	// session
	Connect(ctx context.Context, conn *websocket.Conn) (string, error)
	CreateRoom(context.Context, *service.CreateRoomParams) (service.CreateRoomResponse, error)
	JoinRoom(context.Context, *service.JoinRoomParams) (service.JoinRoomResponse, error)
	Relay(context.Context, *service.RelayParams) (service.RelayResponse, error)
	UpdateQueue(context.Context, *service.UpdateQueueParams) (service.RelayResponse, error)
	AddToQueue(context.Context, *service.AddToQueueParams) (service.RelayResponse, error)
	Disconnect(ctx context.Context, memberId string) (service.DisconnectResponse, error)
	// user
	RegisterUser(context.Context, *service.RegisterUserParams) (service.AuthResponse, error)
	LoginUser(context.Context, *service.LoginUserParams) (service.AuthResponse, error)
	GetAllData(ctx context.Context, userId string) (service.AllDataResponse, error)
	SetLike(context.Context, *service.SetLikeParams) error
	CreatePlaylist(context.Context, *service.CreatePlaylistParams) error
	AddPlaylistSong(context.Context, *service.AddPlaylistSongParams) error
	ParseToken(tokenString string) (*service.Claims, error)
}

type controller struct {
	service  iService
	upgrader websocket.Upgrader
	validate *validator.Validator
	wsmux    *wsrouter.WSRouter
	logger   *slog.Logger
}

func NewController(service iService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		service:  service,
		validate: validator.NewValidator(),
		logger:   logger,
	}

	c.wsmux = c.getWSRouter()

	return c
}
