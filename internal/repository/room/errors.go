package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomAlreadyExists   = errors.New("room already exists")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyInRoom = errors.New("member already in a room")
)
