package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/clementus360/chat-backend/database"
	"github.com/clementus360/chat-backend/models"
	"github.com/jackc/pgx/v5"
)

const profileColumns = "id, username, avatar_url, bio, status, last_seen, is_premium, theme, created_at"

// profileFields is the fixed set of columns a caller may update. Anything
// else in the body is ignored.
var profileFields = []string{"bio", "avatar_url", "theme"}

func Profile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getProfile(w, r)
	case http.MethodPost:
		updateProfile(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func getProfile(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("user_id")
	if rawID == "" {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	userID, err := strconv.Atoi(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		log.Println("Error parsing user id:", err)
		return
	}

	var user models.User
	query := "SELECT " + profileColumns + " FROM users WHERE id = $1"
	err = database.DB.QueryRow(r.Context(), query, userID).
		Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status,
			&user.LastSeen, &user.IsPremium, &user.Theme, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to fetch profile")
		log.Println("Error fetching profile:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func updateProfile(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body")
		log.Println("Error parsing profile update body:", err)
		return
	}

	userID, ok := TrustedUserID(r, body, "user_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	// Build query string from the fields actually supplied, each bound as
	// its own parameter
	var queryParts []string
	var queryParams []any
	argIndex := 1

	for _, field := range profileFields {
		if value, exists := body[field]; exists {
			queryParts = append(queryParts, fmt.Sprintf("%s = $%d", field, argIndex))
			queryParams = append(queryParams, value)
			argIndex++
		}
	}

	// if no updatable fields are provided
	if len(queryParts) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(queryParts, ", "), argIndex, profileColumns)
	queryParams = append(queryParams, userID)

	var user models.User
	err = database.DB.QueryRow(r.Context(), query, queryParams...).
		Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status,
			&user.LastSeen, &user.IsPremium, &user.Theme, &user.CreatedAt)
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
	log.Println("Profile updated for user:", user.ID)
}
