package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess        = "access"
	ScopeTokenRefresh       = "refresh"
	ScopeTokenResetPassword = "reset_password"
)

// Token lifetimes
const (
	AccessTokenDuration  = 24 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Timeouts
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "bandmate:token:blacklist:"
)

// Mailer
const (
	TaskTypeEmailSend = "email:send"
	MailerQueue       = "mailer"
)
