package domain

import "time"

// Session is the server-side half of the session carrier. The client holds a
// signed token referencing SessionID; logout flips Enable so the token dies
// even before its TTL. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type Session struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
