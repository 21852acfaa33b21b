package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clementus360/chat-backend/database"
	"github.com/jackc/pgx/v5"
)

// UserResponse is the user shape for listings and search results.
type UserResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Status    string    `json:"status"`
	LastSeen  time.Time `json:"last_seen"`
}

const userListColumns = "id, username, avatar_url, bio, status, last_seen"

func Users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listUsers(w, r)
	case http.MethodPost:
		usersAction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	rawID := r.URL.Query().Get("user_id")

	var rows pgx.Rows
	var err error

	if search != "" {
		query := "SELECT " + userListColumns + " FROM users WHERE username ILIKE $1 ORDER BY username LIMIT 20"
		rows, err = database.DB.Query(r.Context(), query, "%"+search+"%")
	} else if rawID != "" {
		userID, parseErr := strconv.Atoi(rawID)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			log.Println("Error parsing user id:", parseErr)
			return
		}
		query := "SELECT " + userListColumns + " FROM users WHERE id = $1"
		rows, err = database.DB.Query(r.Context(), query, userID)
	} else {
		query := "SELECT " + userListColumns + " FROM users ORDER BY last_seen DESC LIMIT 50"
		rows, err = database.DB.Query(r.Context(), query)
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to fetch users")
		log.Println("Error fetching users:", err)
		return
	}
	defer rows.Close()

	// Parse rows into user structs
	users := []UserResponse{}
	for rows.Next() {
		var user UserResponse
		err = rows.Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status, &user.LastSeen)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to fetch users")
			log.Println("Error scanning users:", err)
			return
		}
		users = append(users, user)
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func usersAction(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body")
		log.Println("Error parsing users request body:", err)
		return
	}

	switch stringField(body, "action") {
	case "update_profile":
		overwriteProfile(w, r, body)
	case "update_status":
		updateStatus(w, r, body)
	case "report_user":
		reportUser(w, r, body)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

// overwriteProfile replaces avatar_url and bio unconditionally, unlike the
// sparse update on /api/profile.
func overwriteProfile(w http.ResponseWriter, r *http.Request, body map[string]any) {
	userID, ok := TrustedUserID(r, body, "user_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	avatarURL := stringField(body, "avatar_url")
	bio := stringField(body, "bio")

	query := `UPDATE users SET avatar_url = $1, bio = $2 WHERE id = $3
	          RETURNING id, username, avatar_url, bio, status`

	var user AuthUserResponse
	err := database.DB.QueryRow(r.Context(), query, avatarURL, bio, userID).
		Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to update profile")
		log.Println("Error updating profile:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func updateStatus(w http.ResponseWriter, r *http.Request, body map[string]any) {
	userID, ok := TrustedUserID(r, body, "user_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	status := stringField(body, "status")
	if status == "" {
		status = "offline"
	}

	_, err := database.DB.Exec(r.Context(), "UPDATE users SET status = $1, last_seen = NOW() WHERE id = $2", status, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to update status")
		log.Println("Error updating status:", err)
		return
	}

	if status == "offline" {
		database.ClearPresence(r.Context(), userID)
	} else {
		database.SetPresence(r.Context(), userID, status)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
	log.Println("Status updated for user", userID, "to", status)
}

func reportUser(w http.ResponseWriter, r *http.Request, body map[string]any) {
	reporterID, ok := TrustedUserID(r, body, "reporter_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "reporter_id required")
		return
	}

	reportedID, ok := intField(body, "reported_user_id")
	if !ok || reportedID <= 0 {
		writeError(w, http.StatusBadRequest, "reported_user_id required")
		return
	}

	reason := stringField(body, "reason")

	_, err := database.DB.Exec(r.Context(),
		"INSERT INTO user_reports (reporter_id, reported_user_id, reason) VALUES ($1, $2, $3)",
		reporterID, reportedID, reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to report user")
		log.Println("Error reporting user:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
	log.Println("User", reportedID, "reported by", reporterID)
}
