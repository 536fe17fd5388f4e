package http

import (
	"github.com/go-idverify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-idverify-api/internal/infrastructure/jwt"
	s3infra "github.com/go-idverify-api/internal/infrastructure/s3"
	"github.com/go-idverify-api/internal/infrastructure/smtp"
	"github.com/go-idverify-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      *dynamo.UserRepo
	SessionRepo   *dynamo.SessionRepo
	S3Store       *s3infra.Store
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	TokenProvider *jwtinfra.Provider
}
