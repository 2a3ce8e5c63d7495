package database

import "time"

type User struct {
	Id           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Topic struct {
	Id        int
	Name      string
	CreatedAt time.Time
}

type Room struct {
	Id           int
	ExternalId   string
	Name         string
	Description  string
	HostId       int
	HostUsername string
	TopicId      int
	TopicName    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Message struct {
	Id        int
	RoomId    int
	AccountId int
	Username  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateAccountParams struct {
	Username     string
	PasswordHash string
}

type CreateRoomParams struct {
	ExternalId  string
	Name        string
	Description string
	HostId      int
	TopicId     int
}

type UpdateRoomParams struct {
	RoomId      int
	Name        string
	Description string
	HostId      int
	TopicId     int
}

type CreateMessageParams struct {
	RoomId    int
	AccountId int
	Body      string
}
