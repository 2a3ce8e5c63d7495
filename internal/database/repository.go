package database

type ForumRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByUsername(username string) (User, error)
	GetOrCreateTopic(name string) (Topic, error)
	ListTopics() ([]Topic, error)
	SearchRooms(query string) ([]Room, error)
	GetRoomByExternalId(externalId string) (Room, error)
	ListRoomsByHost(accountId int) ([]Room, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	UpdateRoom(params UpdateRoomParams) (Room, error)
	DeleteRoom(roomId int) error
	GetParticipantsByRoomId(roomId int) ([]User, error)
	CreateMessage(params CreateMessageParams) (Message, error)
	GetMessageById(messageId int) (Message, error)
	ListMessagesByRoomId(roomId int) ([]Message, error)
	ListMessagesByAccountId(accountId int) ([]Message, error)
	ListMessagesByTopicQuery(query string, limit int) ([]Message, error)
	DeleteMessage(messageId int) error
}
