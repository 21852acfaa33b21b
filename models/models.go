package models

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Status    string    `json:"status"`
	LastSeen  time.Time `json:"last_seen"`
	IsPremium bool      `json:"is_premium"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID            int       `json:"id"`
	SenderID      int       `json:"sender_id"`
	ReceiverID    int       `json:"receiver_id"`
	Content       string    `json:"content"`
	FileURL       *string   `json:"file_url"`
	FileName      *string   `json:"file_name"`
	VoiceURL      *string   `json:"voice_url"`
	VoiceDuration *int      `json:"voice_duration"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	SenderName    string    `json:"sender_name"`
	SenderAvatar  string    `json:"sender_avatar"`
}

type Group struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroupMember struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

type GroupMessage struct {
	ID           int       `json:"id"`
	SenderID     int       `json:"sender_id"`
	Content      string    `json:"content"`
	FileURL      *string   `json:"file_url"`
	FileName     *string   `json:"file_name"`
	CreatedAt    time.Time `json:"created_at"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar"`
}

type UserReport struct {
	ID             int       `json:"id"`
	ReporterID     int       `json:"reporter_id"`
	ReportedUserID int       `json:"reported_user_id"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}
