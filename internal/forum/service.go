package forum

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/types"
	"github.com/teris-io/shortid"
)

// Service implements the forum's core operations on top of a
// ForumRepository. Every operation takes the acting user's id explicitly;
// AnonymousId marks an unauthenticated caller.
type Service struct {
	log  *log.Logger
	repo database.ForumRepository
}

func NewService(logger *log.Logger, repo database.ForumRepository) *Service {
	return &Service{
		log:  logger,
		repo: repo,
	}
}

// SearchRooms returns rooms whose topic name, room name, description or
// host username contains the query, case-insensitively. An empty query
// returns every room.
func (s *Service) SearchRooms(query string) ([]types.Room, error) {
	dbRooms, err := s.repo.SearchRooms(query)
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	rooms := make([]types.Room, 0, len(dbRooms))
	for _, dbRoom := range dbRooms {
		rooms = append(rooms, roomFromDB(dbRoom))
	}

	return rooms, nil
}

func (s *Service) CreateRoom(callerId int, topicName, name, description string) (types.Room, error) {
	if !authenticated(callerId) {
		return types.Room{}, ErrUnauthorized
	}

	host, err := s.repo.GetAccountById(callerId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Room{}, ErrUnauthorized
		}
		return types.Room{}, fmt.Errorf("get account: %w", err)
	}

	topic, err := s.repo.GetOrCreateTopic(topicName)
	if err != nil {
		return types.Room{}, fmt.Errorf("resolve topic: %w", err)
	}

	sid, err := shortid.Generate()
	if err != nil {
		return types.Room{}, fmt.Errorf("generate short id: %w", err)
	}

	dbRoom, err := s.repo.CreateRoom(database.CreateRoomParams{
		ExternalId:  sid,
		Name:        name,
		Description: description,
		HostId:      host.Id,
		TopicId:     topic.Id,
	})
	if err != nil {
		return types.Room{}, fmt.Errorf("create room: %w", err)
	}

	dbRoom.HostUsername = host.Username
	dbRoom.TopicName = topic.Name

	return roomFromDB(dbRoom), nil
}

func (s *Service) UpdateRoom(callerId int, externalId, topicName, name, description string) (types.Room, error) {
	if !authenticated(callerId) {
		return types.Room{}, ErrUnauthorized
	}

	room, err := s.repo.GetRoomByExternalId(externalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Room{}, ErrNotFound
		}
		return types.Room{}, fmt.Errorf("get room: %w", err)
	}

	if !canModifyRoom(callerId, room) {
		return types.Room{}, ErrForbidden
	}

	topic, err := s.repo.GetOrCreateTopic(topicName)
	if err != nil {
		return types.Room{}, fmt.Errorf("resolve topic: %w", err)
	}

	// The caller is the host here, so reassigning the host is a no-op;
	// kept to mirror the room form semantics.
	updated, err := s.repo.UpdateRoom(database.UpdateRoomParams{
		RoomId:      room.Id,
		Name:        name,
		Description: description,
		HostId:      callerId,
		TopicId:     topic.Id,
	})
	if err != nil {
		return types.Room{}, fmt.Errorf("update room: %w", err)
	}

	updated.HostUsername = room.HostUsername
	updated.TopicName = topic.Name

	return roomFromDB(updated), nil
}

func (s *Service) DeleteRoom(callerId int, externalId string) error {
	if !authenticated(callerId) {
		return ErrUnauthorized
	}

	room, err := s.repo.GetRoomByExternalId(externalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if !canModifyRoom(callerId, room) {
		return ErrForbidden
	}

	if err := s.repo.DeleteRoom(room.Id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	return nil
}

// GetRoom returns the room along with its participants.
func (s *Service) GetRoom(externalId string) (types.Room, error) {
	dbRoom, err := s.repo.GetRoomByExternalId(externalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Room{}, ErrNotFound
		}
		return types.Room{}, fmt.Errorf("get room: %w", err)
	}

	room := roomFromDB(dbRoom)

	participants, err := s.repo.GetParticipantsByRoomId(dbRoom.Id)
	if err != nil {
		return types.Room{}, fmt.Errorf("get participants: %w", err)
	}

	room.Participants = make([]types.User, 0, len(participants))
	for _, p := range participants {
		room.Participants = append(room.Participants, userFromDB(p))
	}

	return room, nil
}

// PostMessage creates a message in the room and joins the author to its
// participants. Posting again leaves the participant set unchanged.
func (s *Service) PostMessage(callerId int, externalId, body string) (types.Message, error) {
	if !authenticated(callerId) {
		return types.Message{}, ErrUnauthorized
	}

	author, err := s.repo.GetAccountById(callerId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Message{}, ErrUnauthorized
		}
		return types.Message{}, fmt.Errorf("get account: %w", err)
	}

	room, err := s.repo.GetRoomByExternalId(externalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Message{}, ErrNotFound
		}
		return types.Message{}, fmt.Errorf("get room: %w", err)
	}

	msg, err := s.repo.CreateMessage(database.CreateMessageParams{
		RoomId:    room.Id,
		AccountId: author.Id,
		Body:      body,
	})
	if err != nil {
		return types.Message{}, fmt.Errorf("create message: %w", err)
	}

	msg.Username = author.Username

	return messageFromDB(msg), nil
}

// RoomMessages returns the room's messages, most recent first.
func (s *Service) RoomMessages(externalId string) ([]types.Message, error) {
	room, err := s.repo.GetRoomByExternalId(externalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	dbMsgs, err := s.repo.ListMessagesByRoomId(room.Id)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messagesFromDB(dbMsgs), nil
}

// UserMessages returns the user's messages, most recent first. A user
// with no messages yields an empty slice.
func (s *Service) UserMessages(accountId int) ([]types.Message, error) {
	dbMsgs, err := s.repo.ListMessagesByAccountId(accountId)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messagesFromDB(dbMsgs), nil
}

func (s *Service) DeleteMessage(callerId, messageId int) error {
	if !authenticated(callerId) {
		return ErrUnauthorized
	}

	msg, err := s.repo.GetMessageById(messageId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get message: %w", err)
	}

	if !canModifyMessage(callerId, msg) {
		return ErrForbidden
	}

	// The author stays in the room's participant set even after deleting
	// their last message there.
	if err := s.repo.DeleteMessage(msg.Id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return nil
}

func (s *Service) Topics() ([]types.Topic, error) {
	dbTopics, err := s.repo.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	topics := make([]types.Topic, 0, len(dbTopics))
	for _, t := range dbTopics {
		topics = append(topics, types.Topic{Id: t.Id, Name: t.Name})
	}

	return topics, nil
}

// RecentMessages returns the latest messages posted in rooms whose topic
// matches the query, for the home activity feed.
func (s *Service) RecentMessages(query string, limit int) ([]types.Message, error) {
	dbMsgs, err := s.repo.ListMessagesByTopicQuery(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}

	return messagesFromDB(dbMsgs), nil
}

// Profile returns the user together with the rooms they host and the
// messages they authored. The two listings fail soft: a listing error is
// logged and an empty slice returned, only the user lookup itself can
// surface an error.
func (s *Service) Profile(accountId int) (types.User, []types.Room, []types.Message, error) {
	account, err := s.repo.GetAccountById(accountId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, nil, nil, ErrNotFound
		}
		return types.User{}, nil, nil, fmt.Errorf("get account: %w", err)
	}

	rooms := make([]types.Room, 0)
	dbRooms, err := s.repo.ListRoomsByHost(account.Id)
	if err != nil {
		s.log.Printf("profile: list rooms for account %d: %v", account.Id, err)
	} else {
		for _, r := range dbRooms {
			rooms = append(rooms, roomFromDB(r))
		}
	}

	messages := make([]types.Message, 0)
	dbMsgs, err := s.repo.ListMessagesByAccountId(account.Id)
	if err != nil {
		s.log.Printf("profile: list messages for account %d: %v", account.Id, err)
	} else {
		messages = messagesFromDB(dbMsgs)
	}

	return userFromDB(account), rooms, messages, nil
}

func userFromDB(u database.User) types.User {
	return types.User{
		Id:        u.Id,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func roomFromDB(r database.Room) types.Room {
	return types.Room{
		Id:          r.Id,
		ExternalId:  r.ExternalId,
		Name:        r.Name,
		Description: r.Description,
		Topic: types.Topic{
			Id:   r.TopicId,
			Name: r.TopicName,
		},
		Host: types.User{
			Id:       r.HostId,
			Username: r.HostUsername,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func messageFromDB(m database.Message) types.Message {
	return types.Message{
		Id:        m.Id,
		RoomId:    m.RoomId,
		UserId:    m.AccountId,
		Username:  m.Username,
		Body:      m.Body,
		Timestamp: m.CreatedAt,
	}
}

func messagesFromDB(dbMsgs []database.Message) []types.Message {
	messages := make([]types.Message, 0, len(dbMsgs))
	for _, m := range dbMsgs {
		messages = append(messages, messageFromDB(m))
	}

	return messages
}
