package models

import "time"

// Request представляет заявку резидента
// @Description Сервисная заявка резидента
type Request struct {
	ID            string     `json:"id" example:"b3c9a7e2-1f44-4d6a-9e2b-7c1d2f3a4b5c" description:"UUID заявки"`
	TgID          int64      `json:"tg_id" example:"123456789" description:"ID владельца в Telegram"`
	Category      string     `json:"category" example:"plumbing" description:"Категория заявки"`
	Unit          string     `json:"unit" example:"B-204" description:"Юнит/квартира"`
	Details       string     `json:"details" description:"Описание проблемы"`
	Status        string     `json:"status" example:"pending" enums:"pending,confirmed,done,cancelled,cancelled_by_user"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PreferredTime *time.Time `json:"preferred_time"`
	Photos        []string   `json:"photos"`
}

// RequestCreate — входные данные создания заявки.
type RequestCreate struct {
	Category      string   `json:"category" binding:"required"`
	Unit          string   `json:"unit"`
	Details       string   `json:"details"`
	PreferredTime string   `json:"preferred_time"`
	Photos        []string `json:"photos"`
}

// StatusUpdate — смена статуса заявки персоналом.
type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// RequestMessage представляет сообщение чата по заявке
// @Description Сообщение в чате заявки
type RequestMessage struct {
	ID         string    `json:"id" description:"UUID сообщения"`
	RequestID  string    `json:"request_id" description:"UUID заявки"`
	AuthorID   int64     `json:"author_id" example:"123456789" description:"ID автора в Telegram"`
	AuthorRole string    `json:"author_role" example:"resident" enums:"resident,staff"`
	Body       string    `json:"body" description:"Текст сообщения"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageCreate — входные данные сообщения чата.
type MessageCreate struct {
	Body string `json:"body" binding:"required"`
}
