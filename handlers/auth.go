package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/clementus360/chat-backend/database"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUserResponse is the user shape returned by register/login, without
// the password hash.
type AuthUserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Status    string `json:"status"`
}

type authRequest struct {
	Action    string `json:"action"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

func Auth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse request body
	var req authRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body")
		log.Println("Error parsing auth request body:", err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	switch req.Action {
	case "register":
		registerUser(w, r, req)
	case "login":
		loginUser(w, r, req)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

func registerUser(w http.ResponseWriter, r *http.Request, req authRequest) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to create user")
		log.Println("Error hashing password:", err)
		return
	}

	// insert user into database
	query := `INSERT INTO users (username, password_hash, avatar_url, bio, status)
	          VALUES ($1, $2, $3, $4, 'online')
	          RETURNING id, username, avatar_url, bio, status`

	var user AuthUserResponse
	err = database.DB.QueryRow(r.Context(), query, req.Username, string(hashed), req.AvatarURL, req.Bio).
		Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Username already exists")
			log.Println("Duplicate username on register:", req.Username)
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to create user")
		log.Println("Error creating user:", err)
		return
	}

	database.SetPresence(r.Context(), user.ID, "online")

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
	log.Println("User registered:", user.Username)
}

func loginUser(w http.ResponseWriter, r *http.Request, req authRequest) {
	var user AuthUserResponse
	var hash string

	query := "SELECT id, username, avatar_url, bio, status, password_hash FROM users WHERE username = $1"
	err := database.DB.QueryRow(r.Context(), query, req.Username).
		Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.Status, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to log in")
		log.Println("Error fetching user on login:", err)
		return
	}

	// Nothing is mutated unless the credentials match
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	_, err = database.DB.Exec(r.Context(), "UPDATE users SET status = 'online', last_seen = NOW() WHERE id = $1", user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to log in")
		log.Println("Error updating status on login:", err)
		return
	}

	user.Status = "online"
	database.SetPresence(r.Context(), user.ID, "online")

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
	log.Println("User logged in:", user.Username)
}
