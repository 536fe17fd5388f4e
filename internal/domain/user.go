package domain

import "time"

// User is the single durable record kept per email address. Email is the
// natural key and is immutable after creation; UserID is a surrogate ULID
// used only where raw emails are unsuitable (S3 object keys).
type User struct {
	Email         string `json:"email" dynamodbav:"email"`
	UserID        string `json:"id" dynamodbav:"user_id"`
	PasswordHash  string `json:"-" dynamodbav:"password_hash"`
	FullName      string `json:"full_name" dynamodbav:"full_name"`
	PhoneNumber   string `json:"phone_number" dynamodbav:"phone_number"`
	SSN           string `json:"ssn" dynamodbav:"ssn"`
	BankName      string `json:"bank_name" dynamodbav:"bank_name"`
	CardNumber    string `json:"card_number" dynamodbav:"card_number"`
	ExpiryDate    string `json:"expiry_date" dynamodbav:"expiry_date"`
	CVV           string `json:"cvv" dynamodbav:"cvv"`
	PhotoIDFront  string `json:"photo_id_front_url" dynamodbav:"photo_id_front_url"`
	PhotoIDBack   string `json:"photo_id_back_url" dynamodbav:"photo_id_back_url"`
	SSNCard       string `json:"ssn_card_url" dynamodbav:"ssn_card_url"`
	SchemaVersion int    `json:"-" dynamodbav:"schema_version"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// SchemaVersionCurrent is stamped on every new or migrated record.
// v1 records carried a single undifferentiated photo_id attribute.
const SchemaVersionCurrent = 2

// Verified reports whether the record counts as identity-verified.
// There is no stored flag; verification is derived from SSN presence so it
// can never drift from the underlying field.
func (u *User) Verified() bool {
	return u.SSN != ""
}

// VerificationFields is the merge payload accepted by the verification
// submit operation.
// Every field is optional; empty values are ignored, never treated as a
// clear. Document fields carry base64-encoded image payloads.
type VerificationFields struct {
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
	SSN          string `json:"ssn"`
	BankName     string `json:"bank_name"`
	CardNumber   string `json:"card_number"`
	ExpiryDate   string `json:"expiry_date"`
	CVV          string `json:"cvv"`
	PhotoIDFront string `json:"photo_id_front"`
	PhotoIDBack  string `json:"photo_id_back"`
	SSNCard      string `json:"ssn_card"`
}

// Empty reports whether the payload contains nothing to merge.
func (f VerificationFields) Empty() bool {
	return f == VerificationFields{}
}
