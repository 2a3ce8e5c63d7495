package database

import (
	"database/sql"
	"time"
)

const (
	roomColumns = "r.id, r.external_id, r.name, r.description, r.host_id, a.username, r.topic_id, t.name, r.created_at, r.updated_at"
	roomJoins   = "FROM rooms r JOIN accounts a ON r.host_id = a.id JOIN topics t ON r.topic_id = t.id"

	messageColumns = "m.id, m.room_id, m.account_id, a.username, m.body, m.created_at, m.updated_at"
	messageJoins   = "FROM messages m JOIN accounts a ON m.account_id = a.id"
)

func (db *PgForumRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $3) RETURNING id, username, created_at, updated_at",
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgForumRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, created_at, updated_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgForumRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at, updated_at FROM accounts "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

// GetOrCreateTopic returns the topic with the given name, creating it if
// absent. The upsert keeps concurrent callers from racing the uniqueness
// constraint: the loser reads the winner's row instead of failing.
func (db *PgForumRepository) GetOrCreateTopic(name string) (Topic, error) {
	res := db.conn.QueryRow(
		"INSERT INTO topics (name, created_at) VALUES ($1, $2) "+
			"ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name "+
			"RETURNING id, name, created_at",
		name,
		time.Now().UTC(),
	)

	var topic Topic
	err := res.Scan(
		&topic.Id,
		&topic.Name,
		&topic.CreatedAt,
	)

	return topic, err
}

func (db *PgForumRepository) ListTopics() ([]Topic, error) {
	rows, err := db.conn.Query("SELECT id, name, created_at FROM topics ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics = make([]Topic, 0)
	for rows.Next() {
		var topic Topic
		if err = rows.Scan(&topic.Id, &topic.Name, &topic.CreatedAt); err != nil {
			break
		}

		topics = append(topics, topic)
	}

	return topics, err
}

// SearchRooms matches the query as a case-insensitive substring of the
// topic name, room name, description or host username. An empty query
// matches every room.
func (db *PgForumRepository) SearchRooms(query string) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT "+roomColumns+" "+roomJoins+" "+
			"WHERE t.name ILIKE '%' || $1 || '%' "+
			"OR r.name ILIKE '%' || $1 || '%' "+
			"OR r.description ILIKE '%' || $1 || '%' "+
			"OR a.username ILIKE '%' || $1 || '%'",
		query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

func (db *PgForumRepository) GetRoomByExternalId(externalId string) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT "+roomColumns+" "+roomJoins+" WHERE r.external_id = $1 LIMIT 1",
		externalId,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Name,
		&room.Description,
		&room.HostId,
		&room.HostUsername,
		&room.TopicId,
		&room.TopicName,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func (db *PgForumRepository) ListRoomsByHost(accountId int) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT "+roomColumns+" "+roomJoins+" WHERE r.host_id = $1",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

func (db *PgForumRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	res := db.conn.QueryRow(
		"INSERT INTO rooms (external_id, name, description, host_id, topic_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $6) "+
			"RETURNING id, external_id, name, description, host_id, topic_id, created_at, updated_at",
		params.ExternalId,
		params.Name,
		params.Description,
		params.HostId,
		params.TopicId,
		time.Now().UTC(),
	)

	var room Room
	err := res.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Name,
		&room.Description,
		&room.HostId,
		&room.TopicId,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func (db *PgForumRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	res := db.conn.QueryRow(
		"UPDATE rooms SET name = $2, description = $3, host_id = $4, topic_id = $5, updated_at = $6 "+
			"WHERE id = $1 "+
			"RETURNING id, external_id, name, description, host_id, topic_id, created_at, updated_at",
		params.RoomId,
		params.Name,
		params.Description,
		params.HostId,
		params.TopicId,
		time.Now().UTC(),
	)

	var room Room
	err := res.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Name,
		&room.Description,
		&room.HostId,
		&room.TopicId,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

// DeleteRoom removes the room and everything it owns in one transaction.
func (db *PgForumRepository) DeleteRoom(roomId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec("DELETE FROM messages WHERE room_id = $1", roomId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM participants WHERE room_id = $1", roomId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE id = $1", roomId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgForumRepository) GetParticipantsByRoomId(roomId int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT a.id, a.username FROM participants AS p "+
			"JOIN accounts AS a ON p.account_id = a.id WHERE p.room_id = $1",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users = make([]User, 0)
	for rows.Next() {
		var user User
		if err = rows.Scan(&user.Id, &user.Username); err != nil {
			break
		}

		users = append(users, user)
	}

	return users, err
}

// CreateMessage inserts the message and joins the author to the room's
// participants in the same transaction. Re-joining is a no-op.
func (db *PgForumRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO messages (room_id, account_id, body, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) "+
			"RETURNING id, room_id, account_id, body, created_at, updated_at",
		params.RoomId,
		params.AccountId,
		params.Body,
		time.Now().UTC(),
	)

	var msg Message
	err = res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.AccountId,
		&msg.Body,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return Message{}, err
	}

	_, err = tx.Exec(
		"INSERT INTO participants (room_id, account_id, created_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (room_id, account_id) DO NOTHING",
		params.RoomId,
		params.AccountId,
		time.Now().UTC(),
	)
	if err != nil {
		return Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return Message{}, err
	}

	return msg, nil
}

func (db *PgForumRepository) GetMessageById(messageId int) (Message, error) {
	row := db.conn.QueryRow(
		"SELECT "+messageColumns+" "+messageJoins+" WHERE m.id = $1 LIMIT 1",
		messageId,
	)

	var msg Message
	err := row.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.AccountId,
		&msg.Username,
		&msg.Body,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)

	return msg, err
}

func (db *PgForumRepository) ListMessagesByRoomId(roomId int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT "+messageColumns+" "+messageJoins+" "+
			"WHERE m.room_id = $1 ORDER BY m.created_at DESC",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (db *PgForumRepository) ListMessagesByAccountId(accountId int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT "+messageColumns+" "+messageJoins+" "+
			"WHERE m.account_id = $1 ORDER BY m.created_at DESC",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListMessagesByTopicQuery returns the latest messages posted in rooms
// whose topic name matches the query, for the home activity feed.
func (db *PgForumRepository) ListMessagesByTopicQuery(query string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		"SELECT "+messageColumns+" "+messageJoins+" "+
			"JOIN rooms r ON m.room_id = r.id "+
			"JOIN topics t ON r.topic_id = t.id "+
			"WHERE t.name ILIKE '%' || $1 || '%' "+
			"ORDER BY m.created_at DESC LIMIT $2",
		query,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (db *PgForumRepository) DeleteMessage(messageId int) error {
	_, err := db.conn.Exec("DELETE FROM messages WHERE id = $1", messageId)

	return err
}

func scanRooms(rows *sql.Rows) ([]Room, error) {
	var rooms = make([]Room, 0)
	var err error
	for rows.Next() {
		var room Room
		err = rows.Scan(
			&room.Id,
			&room.ExternalId,
			&room.Name,
			&room.Description,
			&room.HostId,
			&room.HostUsername,
			&room.TopicId,
			&room.TopicName,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			break
		}

		rooms = append(rooms, room)
	}

	return rooms, err
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var messages = make([]Message, 0)
	var err error
	for rows.Next() {
		var msg Message
		err = rows.Scan(
			&msg.Id,
			&msg.RoomId,
			&msg.AccountId,
			&msg.Username,
			&msg.Body,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}
