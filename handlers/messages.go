package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/clementus360/chat-backend/database"
	"github.com/clementus360/chat-backend/models"
)

type messageRequest struct {
	Action        string  `json:"action"`
	SenderID      int     `json:"sender_id"`
	ReceiverID    int     `json:"receiver_id"`
	Content       string  `json:"content"`
	FileURL       *string `json:"file_url"`
	FileName      *string `json:"file_name"`
	VoiceURL      *string `json:"voice_url"`
	VoiceDuration *int    `json:"voice_duration"`
	MessageIDs    []int64 `json:"message_ids"`
}

func Messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getMessages(w, r)
	case http.MethodPost:
		messagesAction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// getMessages returns the full conversation between two users, both
// directions, oldest first.
func getMessages(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("user_id")
	rawContactID := r.URL.Query().Get("contact_id")
	if rawUserID == "" || rawContactID == "" {
		writeError(w, http.StatusBadRequest, "user_id and contact_id required")
		return
	}

	userID, err := strconv.Atoi(rawUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		log.Println("Error parsing user id:", err)
		return
	}

	contactID, err := strconv.Atoi(rawContactID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id")
		log.Println("Error parsing contact id:", err)
		return
	}

	query := `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.file_url, m.file_name,
	                 m.voice_url, m.voice_duration, m.is_read, m.created_at, u.username, u.avatar_url
	          FROM messages m
	          JOIN users u ON m.sender_id = u.id
	          WHERE (m.sender_id = $1 AND m.receiver_id = $2)
	             OR (m.sender_id = $2 AND m.receiver_id = $1)
	          ORDER BY m.created_at ASC`

	rows, err := database.DB.Query(r.Context(), query, userID, contactID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to fetch messages")
		log.Println("Error fetching messages:", err)
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		err = rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.FileURL, &m.FileName,
			&m.VoiceURL, &m.VoiceDuration, &m.IsRead, &m.CreatedAt, &m.SenderName, &m.SenderAvatar)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to fetch messages")
			log.Println("Error scanning messages:", err)
			return
		}
		messages = append(messages, m)
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func messagesAction(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body")
		log.Println("Error parsing message request body:", err)
		return
	}

	if req.Action == "" {
		req.Action = "send"
	}

	switch req.Action {
	case "send":
		sendMessage(w, r, req)
	case "mark_read":
		markRead(w, r, req)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

func sendMessage(w http.ResponseWriter, r *http.Request, req messageRequest) {
	if req.SenderID <= 0 || req.ReceiverID <= 0 {
		writeError(w, http.StatusBadRequest, "sender_id and receiver_id required")
		return
	}

	query := `INSERT INTO messages (sender_id, receiver_id, content, file_url, file_name, voice_url, voice_duration)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`

	var messageID int
	var createdAt time.Time
	err := database.DB.QueryRow(r.Context(), query,
		req.SenderID, req.ReceiverID, req.Content, req.FileURL, req.FileName, req.VoiceURL, req.VoiceDuration).
		Scan(&messageID, &createdAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to send message")
		log.Println("Error sending message:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": messageID,
		"created_at": createdAt,
	})
	log.Println("Message", messageID, "sent from", req.SenderID, "to", req.ReceiverID)
}

func markRead(w http.ResponseWriter, r *http.Request, req messageRequest) {
	// An empty id set is a successful no-op
	if len(req.MessageIDs) > 0 {
		_, err := database.DB.Exec(r.Context(), "UPDATE messages SET is_read = TRUE WHERE id = ANY($1)", req.MessageIDs)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to mark messages as read")
			log.Println("Error marking messages read:", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
