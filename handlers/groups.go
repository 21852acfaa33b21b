package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/clementus360/chat-backend/database"
	"github.com/clementus360/chat-backend/models"
	"github.com/jackc/pgx/v5"
)

// GroupDetailResponse is the single-group shape with creator and members.
type GroupDetailResponse struct {
	models.Group
	CreatorName string               `json:"creator_name"`
	Members     []models.GroupMember `json:"members"`
}

// GroupSummary is the shape for a user's group listing.
type GroupSummary struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

type groupRequest struct {
	Action      string  `json:"action"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AvatarURL   string  `json:"avatar_url"`
	CreatedBy   int     `json:"created_by"`
	GroupID     int     `json:"group_id"`
	UserID      int     `json:"user_id"`
	SenderID    int     `json:"sender_id"`
	Content     string  `json:"content"`
	FileURL     *string `json:"file_url"`
	FileName    *string `json:"file_name"`
}

func Groups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getGroups(w, r)
	case http.MethodPost:
		groupsAction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func getGroups(w http.ResponseWriter, r *http.Request) {
	rawGroupID := r.URL.Query().Get("group_id")
	rawUserID := r.URL.Query().Get("user_id")

	if rawGroupID != "" {
		groupID, err := strconv.Atoi(rawGroupID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid group id")
			log.Println("Error parsing group id:", err)
			return
		}
		getGroupDetail(w, r, groupID)
		return
	}

	if rawUserID != "" {
		userID, err := strconv.Atoi(rawUserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			log.Println("Error parsing user id:", err)
			return
		}
		getUserGroups(w, r, userID)
		return
	}

	writeError(w, http.StatusBadRequest, "group_id or user_id required")
}

func getGroupDetail(w http.ResponseWriter, r *http.Request, groupID int) {
	var group GroupDetailResponse

	query := `SELECT g.id, g.name, g.description, g.avatar_url, g.created_by, g.created_at, u.username
	          FROM groups g
	          JOIN users u ON g.created_by = u.id
	          WHERE g.id = $1`
	err := database.DB.QueryRow(r.Context(), query, groupID).
		Scan(&group.ID, &group.Name, &group.Description, &group.AvatarURL,
			&group.CreatedBy, &group.CreatedAt, &group.CreatorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to fetch group")
		log.Println("Error fetching group:", err)
		return
	}

	membersQuery := `SELECT u.id, u.username, u.avatar_url, gm.role
	                 FROM group_members gm
	                 JOIN users u ON gm.user_id = u.id
	                 WHERE gm.group_id = $1`
	rows, err := database.DB.Query(r.Context(), membersQuery, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to fetch group members")
		log.Println("Error fetching group members:", err)
		return
	}
	defer rows.Close()

	group.Members = []models.GroupMember{}
	for rows.Next() {
		var member models.GroupMember
		err = rows.Scan(&member.ID, &member.Username, &member.AvatarURL, &member.Role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to fetch group members")
			log.Println("Error scanning group members:", err)
			return
		}
		group.Members = append(group.Members, member)
	}

	writeJSON(w, http.StatusOK, map[string]any{"group": group})
}

func getUserGroups(w http.ResponseWriter, r *http.Request, userID int) {
	query := `SELECT g.id, g.name, g.description, g.avatar_url, g.created_at,
	                 (SELECT COUNT(*) FROM group_members WHERE group_id = g.id) AS member_count
	          FROM groups g
	          JOIN group_members gm ON g.id = gm.group_id
	          WHERE gm.user_id = $1
	          ORDER BY g.created_at DESC`

	rows, err := database.DB.Query(r.Context(), query, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to fetch groups")
		log.Println("Error fetching groups:", err)
		return
	}
	defer rows.Close()

	groups := []GroupSummary{}
	for rows.Next() {
		var group GroupSummary
		err = rows.Scan(&group.ID, &group.Name, &group.Description, &group.AvatarURL,
			&group.CreatedAt, &group.MemberCount)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to fetch groups")
			log.Println("Error scanning groups:", err)
			return
		}
		groups = append(groups, group)
	}

	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func groupsAction(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body")
		log.Println("Error parsing group request body:", err)
		return
	}

	switch req.Action {
	case "create":
		createGroup(w, r, req)
	case "add_member":
		addMember(w, r, req)
	case "send_message":
		sendGroupMessage(w, r, req)
	case "get_messages":
		getGroupMessages(w, r, req)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

// createGroup inserts the group and its creator's admin membership as one
// transaction so a failed membership insert never leaves an orphaned group.
func createGroup(w http.ResponseWriter, r *http.Request, req groupRequest) {
	if req.Name == "" || req.CreatedBy <= 0 {
		writeError(w, http.StatusBadRequest, "name and created_by required")
		return
	}

	tx, err := database.DB.Begin(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to create group")
		log.Println("Error starting transaction:", err)
		return
	}
	defer tx.Rollback(r.Context())

	var group models.Group
	query := `INSERT INTO groups (name, description, avatar_url, created_by)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, name, description, avatar_url, created_by, created_at`
	err = tx.QueryRow(r.Context(), query, req.Name, req.Description, req.AvatarURL, req.CreatedBy).
		Scan(&group.ID, &group.Name, &group.Description, &group.AvatarURL, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to create group")
		log.Println("Error creating group:", err)
		return
	}

	_, err = tx.Exec(r.Context(),
		"INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, 'admin')",
		group.ID, req.CreatedBy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to create group")
		log.Println("Error adding creator to group:", err)
		return
	}

	if err = tx.Commit(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to create group")
		log.Println("Error committing group creation:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "group": group})
	log.Println("Group created:", group.ID, group.Name)
}

func addMember(w http.ResponseWriter, r *http.Request, req groupRequest) {
	if req.GroupID <= 0 || req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "group_id and user_id required")
		return
	}

	_, err := database.DB.Exec(r.Context(),
		"INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, 'member')",
		req.GroupID, req.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "User is already a member of the group")
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to add member")
		log.Println("Error adding member:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
	log.Println("User", req.UserID, "added to group", req.GroupID)
}

func sendGroupMessage(w http.ResponseWriter, r *http.Request, req groupRequest) {
	if req.GroupID <= 0 || req.SenderID <= 0 {
		writeError(w, http.StatusBadRequest, "group_id and sender_id required")
		return
	}

	query := `INSERT INTO group_messages (group_id, sender_id, content, file_url, file_name)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	var messageID int
	var createdAt time.Time
	err := database.DB.QueryRow(r.Context(), query,
		req.GroupID, req.SenderID, req.Content, req.FileURL, req.FileName).
		Scan(&messageID, &createdAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to send message")
		log.Println("Error sending group message:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": messageID,
		"created_at": createdAt,
	})
}

func getGroupMessages(w http.ResponseWriter, r *http.Request, req groupRequest) {
	if req.GroupID <= 0 {
		writeError(w, http.StatusBadRequest, "group_id required")
		return
	}

	query := `SELECT gm.id, gm.sender_id, gm.content, gm.file_url, gm.file_name,
	                 gm.created_at, u.username, u.avatar_url
	          FROM group_messages gm
	          JOIN users u ON gm.sender_id = u.id
	          WHERE gm.group_id = $1
	          ORDER BY gm.created_at ASC`

	rows, err := database.DB.Query(r.Context(), query, req.GroupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to fetch messages")
		log.Println("Error fetching group messages:", err)
		return
	}
	defer rows.Close()

	messages := []models.GroupMessage{}
	for rows.Next() {
		var m models.GroupMessage
		err = rows.Scan(&m.ID, &m.SenderID, &m.Content, &m.FileURL, &m.FileName,
			&m.CreatedAt, &m.SenderName, &m.SenderAvatar)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Unable to fetch messages")
			log.Println("Error scanning group messages:", err)
			return
		}
		messages = append(messages, m)
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
