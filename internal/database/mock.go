package database

import (
	"github.com/stretchr/testify/mock"
)

type MockForumRepository struct {
	mock.Mock
}

func (m *MockForumRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockForumRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) GetOrCreateTopic(name string) (Topic, error) {
	args := m.Called(name)
	return args.Get(0).(Topic), args.Error(1)
}
func (m *MockForumRepository) ListTopics() ([]Topic, error) {
	args := m.Called()
	return args.Get(0).([]Topic), args.Error(1)
}
func (m *MockForumRepository) SearchRooms(query string) ([]Room, error) {
	args := m.Called(query)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockForumRepository) GetRoomByExternalId(externalId string) (Room, error) {
	args := m.Called(externalId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) ListRoomsByHost(accountId int) ([]Room, error) {
	args := m.Called(accountId)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockForumRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) DeleteRoom(roomId int) error {
	args := m.Called(roomId)
	return args.Error(0)
}
func (m *MockForumRepository) GetParticipantsByRoomId(roomId int) ([]User, error) {
	args := m.Called(roomId)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockForumRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockForumRepository) GetMessageById(messageId int) (Message, error) {
	args := m.Called(messageId)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockForumRepository) ListMessagesByRoomId(roomId int) ([]Message, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) ListMessagesByAccountId(accountId int) ([]Message, error) {
	args := m.Called(accountId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) ListMessagesByTopicQuery(query string, limit int) ([]Message, error) {
	args := m.Called(query, limit)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) DeleteMessage(messageId int) error {
	args := m.Called(messageId)
	return args.Error(0)
}
