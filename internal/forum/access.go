package forum

import (
	"github.com/npezzotti/go-forum/internal/database"
)

// AnonymousId is the caller id used for unauthenticated requests.
const AnonymousId = 0

// Ownership is the sole authorization axiom: only a room's host may
// modify the room, only a message's author may modify the message.

func authenticated(callerId int) bool {
	return callerId > AnonymousId
}

func canModifyRoom(callerId int, room database.Room) bool {
	return callerId == room.HostId
}

func canModifyMessage(callerId int, msg database.Message) bool {
	return callerId == msg.AccountId
}
