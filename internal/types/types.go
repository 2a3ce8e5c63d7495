package types

import (
	"time"
)

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Topic struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Room struct {
	Id           int       `json:"id"`
	ExternalId   string    `json:"external_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Topic        Topic     `json:"topic"`
	Host         User      `json:"host"`
	Participants []User    `json:"participants,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Message struct {
	Id        int       `json:"id"`
	RoomId    int       `json:"room_id"`
	UserId    int       `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}
