package forum

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSearchRooms(t *testing.T) {
	dbRoom := database.Room{
		Id:           1,
		ExternalId:   "abc123",
		Name:         "Jazz Night",
		Description:  "all things jazz",
		HostId:       1,
		HostUsername: "alice",
		TopicId:      1,
		TopicName:    "Music",
	}

	tcases := []struct {
		name      string
		query     string
		mockRooms []database.Room
		mockErr   error
		expected  int
		err       bool
	}{
		{
			name:      "empty query returns all rooms",
			query:     "",
			mockRooms: []database.Room{dbRoom},
			expected:  1,
		},
		{
			name:      "query passed through to repository",
			query:     "jazz",
			mockRooms: []database.Room{dbRoom},
			expected:  1,
		},
		{
			name:      "no matches",
			query:     "nomatch",
			mockRooms: []database.Room{},
			expected:  0,
		},
		{
			name:    "repository error",
			query:   "",
			mockErr: errors.New("db error"),
			err:     true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockForumRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("SearchRooms", tc.query).Return(tc.mockRooms, tc.mockErr).Once()

			svc := NewService(testutil.TestLogger(t), mockRepo)
			rooms, err := svc.SearchRooms(tc.query)

			if tc.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, rooms, tc.expected)
			if tc.expected > 0 {
				assert.Equal(t, dbRoom.ExternalId, rooms[0].ExternalId)
				assert.Equal(t, dbRoom.TopicName, rooms[0].Topic.Name)
				assert.Equal(t, dbRoom.HostUsername, rooms[0].Host.Username)
			}
		})
	}
}

func TestCreateRoom(t *testing.T) {
	host := database.User{Id: 1, Username: "alice"}
	topic := database.Topic{Id: 2, Name: "Music"}

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.CreateRoom(AnonymousId, "Music", "Jazz Night", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("stale account is unauthorized", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 99).Return(database.User{}, sql.ErrNoRows).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.CreateRoom(99, "Music", "Jazz Night", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("caller becomes host and topic is resolved", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", host.Id).Return(host, nil).Once()
		mockRepo.On("GetOrCreateTopic", "Music").Return(topic, nil).Once()
		mockRepo.On("CreateRoom", mock.MatchedBy(func(params database.CreateRoomParams) bool {
			return params.HostId == host.Id &&
				params.TopicId == topic.Id &&
				params.Name == "Jazz Night" &&
				params.ExternalId != ""
		})).Return(database.Room{
			Id:      3,
			Name:    "Jazz Night",
			HostId:  host.Id,
			TopicId: topic.Id,
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		room, err := svc.CreateRoom(host.Id, "Music", "Jazz Night", "")
		assert.NoError(t, err)
		assert.Equal(t, host.Id, room.Host.Id)
		assert.Equal(t, host.Username, room.Host.Username)
		assert.Equal(t, topic.Name, room.Topic.Name)
	})

	t.Run("empty name and description are accepted", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", host.Id).Return(host, nil).Once()
		mockRepo.On("GetOrCreateTopic", "Music").Return(topic, nil).Once()
		mockRepo.On("CreateRoom", mock.AnythingOfType("database.CreateRoomParams")).
			Return(database.Room{Id: 4, HostId: host.Id, TopicId: topic.Id}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.CreateRoom(host.Id, "Music", "", "")
		assert.NoError(t, err)
	})
}

func TestUpdateRoom(t *testing.T) {
	room := database.Room{
		Id:           1,
		ExternalId:   "abc123",
		Name:         "Jazz Night",
		HostId:       1,
		HostUsername: "alice",
		TopicId:      2,
		TopicName:    "Music",
	}
	topic := database.Topic{Id: 5, Name: "Blues"}

	tcases := []struct {
		name     string
		callerId int
		getErr   error
		expected error
	}{
		{
			name:     "anonymous caller is unauthorized",
			callerId: AnonymousId,
			expected: ErrUnauthorized,
		},
		{
			name:     "missing room is not found",
			callerId: 1,
			getErr:   sql.ErrNoRows,
			expected: ErrNotFound,
		},
		{
			name:     "non-host is forbidden",
			callerId: 2,
			expected: ErrForbidden,
		},
		{
			name:     "host may update",
			callerId: 1,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockForumRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.callerId != AnonymousId {
				mockRepo.On("GetRoomByExternalId", room.ExternalId).Return(room, tc.getErr).Once()
			}
			if tc.expected == nil {
				mockRepo.On("GetOrCreateTopic", "Blues").Return(topic, nil).Once()
				mockRepo.On("UpdateRoom", database.UpdateRoomParams{
					RoomId:      room.Id,
					Name:        "Blues Night",
					Description: "smoky",
					HostId:      tc.callerId,
					TopicId:     topic.Id,
				}).Return(database.Room{
					Id:      room.Id,
					Name:    "Blues Night",
					HostId:  tc.callerId,
					TopicId: topic.Id,
				}, nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			updated, err := svc.UpdateRoom(tc.callerId, room.ExternalId, "Blues", "Blues Night", "smoky")

			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Blues Night", updated.Name)
			assert.Equal(t, topic.Name, updated.Topic.Name)
		})
	}
}

func TestDeleteRoom(t *testing.T) {
	room := database.Room{Id: 1, ExternalId: "abc123", HostId: 1}

	tcases := []struct {
		name     string
		callerId int
		getErr   error
		expected error
	}{
		{
			name:     "anonymous caller is unauthorized",
			callerId: AnonymousId,
			expected: ErrUnauthorized,
		},
		{
			name:     "missing room is not found",
			callerId: 1,
			getErr:   sql.ErrNoRows,
			expected: ErrNotFound,
		},
		{
			name:     "non-host is forbidden",
			callerId: 2,
			expected: ErrForbidden,
		},
		{
			name:     "host may delete",
			callerId: 1,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockForumRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.callerId != AnonymousId {
				mockRepo.On("GetRoomByExternalId", room.ExternalId).Return(room, tc.getErr).Once()
			}
			if tc.expected == nil {
				mockRepo.On("DeleteRoom", room.Id).Return(nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			err := svc.DeleteRoom(tc.callerId, room.ExternalId)

			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPostMessage(t *testing.T) {
	author := database.User{Id: 1, Username: "alice"}
	room := database.Room{Id: 2, ExternalId: "abc123", HostId: 3}

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.PostMessage(AnonymousId, room.ExternalId, "hello")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing room is not found", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", author.Id).Return(author, nil).Once()
		mockRepo.On("GetRoomByExternalId", "missing").Return(database.Room{}, sql.ErrNoRows).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.PostMessage(author.Id, "missing", "hello")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("message is created with the author attached", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		now := time.Now().UTC()
		mockRepo.On("GetAccountById", author.Id).Return(author, nil).Once()
		mockRepo.On("GetRoomByExternalId", room.ExternalId).Return(room, nil).Once()
		mockRepo.On("CreateMessage", database.CreateMessageParams{
			RoomId:    room.Id,
			AccountId: author.Id,
			Body:      "hello",
		}).Return(database.Message{
			Id:        7,
			RoomId:    room.Id,
			AccountId: author.Id,
			Body:      "hello",
			CreatedAt: now,
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		msg, err := svc.PostMessage(author.Id, room.ExternalId, "hello")
		assert.NoError(t, err)
		assert.Equal(t, "hello", msg.Body)
		assert.Equal(t, author.Username, msg.Username)
		assert.Equal(t, now, msg.Timestamp)
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", author.Id).Return(author, nil).Once()
		mockRepo.On("GetRoomByExternalId", room.ExternalId).Return(room, nil).Once()
		mockRepo.On("CreateMessage", mock.AnythingOfType("database.CreateMessageParams")).
			Return(database.Message{Id: 8, RoomId: room.Id, AccountId: author.Id}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.PostMessage(author.Id, room.ExternalId, "")
		assert.NoError(t, err)
	})
}

func TestDeleteMessage(t *testing.T) {
	msg := database.Message{Id: 7, RoomId: 2, AccountId: 1}

	tcases := []struct {
		name     string
		callerId int
		getErr   error
		expected error
	}{
		{
			name:     "anonymous caller is unauthorized",
			callerId: AnonymousId,
			expected: ErrUnauthorized,
		},
		{
			name:     "missing message is not found",
			callerId: 1,
			getErr:   sql.ErrNoRows,
			expected: ErrNotFound,
		},
		{
			name:     "non-author is forbidden",
			callerId: 2,
			expected: ErrForbidden,
		},
		{
			name:     "author may delete",
			callerId: 1,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockForumRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.callerId != AnonymousId {
				mockRepo.On("GetMessageById", msg.Id).Return(msg, tc.getErr).Once()
			}
			if tc.expected == nil {
				mockRepo.On("DeleteMessage", msg.Id).Return(nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			err := svc.DeleteMessage(tc.callerId, msg.Id)

			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUserMessages_Empty(t *testing.T) {
	mockRepo := &database.MockForumRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("ListMessagesByAccountId", 1).Return([]database.Message{}, nil).Once()

	svc := NewService(testutil.TestLogger(t), mockRepo)
	messages, err := svc.UserMessages(1)
	assert.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestRoomMessages_NotFound(t *testing.T) {
	mockRepo := &database.MockForumRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetRoomByExternalId", "missing").Return(database.Room{}, sql.ErrNoRows).Once()

	svc := NewService(testutil.TestLogger(t), mockRepo)
	_, err := svc.RoomMessages("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfile(t *testing.T) {
	account := database.User{Id: 1, Username: "alice"}

	t.Run("missing user is not found", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 99).Return(database.User{}, sql.ErrNoRows).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, _, _, err := svc.Profile(99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("listing failures fail soft to empty slices", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", account.Id).Return(account, nil).Once()
		mockRepo.On("ListRoomsByHost", account.Id).Return([]database.Room{}, errors.New("db error")).Once()
		mockRepo.On("ListMessagesByAccountId", account.Id).Return([]database.Message{}, errors.New("db error")).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		user, rooms, messages, err := svc.Profile(account.Id)
		assert.NoError(t, err)
		assert.Equal(t, account.Username, user.Username)
		assert.Empty(t, rooms)
		assert.Empty(t, messages)
	})

	t.Run("returns hosted rooms and authored messages", func(t *testing.T) {
		mockRepo := &database.MockForumRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", account.Id).Return(account, nil).Once()
		mockRepo.On("ListRoomsByHost", account.Id).Return([]database.Room{
			{Id: 1, HostId: account.Id, HostUsername: account.Username},
		}, nil).Once()
		mockRepo.On("ListMessagesByAccountId", account.Id).Return([]database.Message{
			{Id: 1, AccountId: account.Id, Body: "hello"},
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, rooms, messages, err := svc.Profile(account.Id)
		assert.NoError(t, err)
		assert.Len(t, rooms, 1)
		assert.Len(t, messages, 1)
	})
}
