package internal

import "time"

// Row is one processed phone number with its digit-only form, derived links,
// and advisory numbering-plan metadata. Rows are rebuilt wholesale on every
// recomputation and never mutated.
type Row struct {
	Number   string `json:"number"`
	Digits   string `json:"digits"`
	Tel      string `json:"tel"`
	SMS      string `json:"sms"`
	WhatsApp string `json:"whatsapp"`
	Custom   string `json:"custom,omitempty"`
	Region   string `json:"region,omitempty"`
	Valid    bool   `json:"valid"`
}

// BatchRecord is one processed batch's diagnostic counts. Only counts are
// stored; the numbers themselves are never persisted.
type BatchRecord struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"-"`
	Source     string    `json:"source"` // "api" or "file"
	Numbers    int       `json:"numbers"`
	Total      int       `json:"total"`
	Rejected   int       `json:"rejected"`
	Duplicates int       `json:"duplicates"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never send password hash to client
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	User    *User    `json:"user,omitempty"`
	Session *Session `json:"session,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
