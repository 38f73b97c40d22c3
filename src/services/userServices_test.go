package services

import (
	"testing"

	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type UserServiceSuite struct {
	suite.Suite
	service *UserService
}

func (s *UserServiceSuite) SetupTest() {
	middleware.SetSecretKey("test-secret")
	s.service = NewUserService(newTestDB(s.T()))
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) TestCreateAndAuthenticate() {
	user, err := s.service.CreateUser(models.RegisterRequest{Username: " revisor ", Password: "secreto123"})
	s.Require().NoError(err)
	s.Equal("revisor", user.Username)
	s.NotEqual("secreto123", user.Password)

	token, err := s.service.AuthenticateUser("revisor", "secreto123")
	s.Require().NoError(err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	s.Require().NoError(err)
	s.True(parsed.Valid)
	s.EqualValues(user.Id, claims["id"])

	_, err = s.service.AuthenticateUser("revisor", "otra")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.AuthenticateUser("nadie", "secreto123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceSuite) TestCreateUserValidation() {
	_, err := s.service.CreateUser(models.RegisterRequest{Username: "", Password: "123"})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "username")
	s.Contains(verr.Fields, "password")
}

func (s *UserServiceSuite) TestEnsureUser() {
	created, err := s.service.EnsureUser("admin", "admin123")
	s.Require().NoError(err)
	s.True(created)

	created, err = s.service.EnsureUser("admin", "otra-clave")
	s.Require().NoError(err)
	s.False(created)

	users, err := s.service.GetAllUsers()
	s.Require().NoError(err)
	s.Len(users, 1)
}
