package database

import (
	"context"
	"log"
)

// RunMigrations ensures tables are created if they don't exist
func RunMigrations() {
	ctx := context.Background()

	migrations := []string{
		// Users Table
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			avatar_url TEXT DEFAULT '',
			bio TEXT DEFAULT '',
			status VARCHAR(20) DEFAULT 'offline',
			last_seen TIMESTAMP DEFAULT NOW(),
			is_premium BOOLEAN DEFAULT FALSE,
			theme VARCHAR(20) DEFAULT 'light',
			created_at TIMESTAMP DEFAULT NOW()
		);`,

		// Direct Messages Table
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			sender_id INT REFERENCES users(id) ON DELETE CASCADE,
			receiver_id INT REFERENCES users(id) ON DELETE CASCADE,
			content TEXT DEFAULT '',
			file_url TEXT,
			file_name TEXT,
			voice_url TEXT,
			voice_duration INT,
			is_read BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW()
		);`,

		// Groups Table
		`CREATE TABLE IF NOT EXISTS groups (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT DEFAULT '',
			avatar_url TEXT DEFAULT '',
			created_by INT REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW()
		);`,

		// Group Membership Table
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id INT REFERENCES groups(id) ON DELETE CASCADE,
			user_id INT REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL DEFAULT 'member',
			joined_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
		);`,

		// Group Messages Table
		`CREATE TABLE IF NOT EXISTS group_messages (
			id SERIAL PRIMARY KEY,
			group_id INT REFERENCES groups(id) ON DELETE CASCADE,
			sender_id INT REFERENCES users(id) ON DELETE CASCADE,
			content TEXT DEFAULT '',
			file_url TEXT,
			file_name TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		);`,

		// User Reports Table
		`CREATE TABLE IF NOT EXISTS user_reports (
			id SERIAL PRIMARY KEY,
			reporter_id INT REFERENCES users(id) ON DELETE CASCADE,
			reported_user_id INT REFERENCES users(id) ON DELETE CASCADE,
			reason TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_group_messages_group ON group_messages(group_id, created_at);`,
	}

	for _, query := range migrations {
		_, err := DB.Exec(ctx, query)
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	log.Println("Migrations applied successfully.")
}
