package web

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/userservice/internal/common"
	"github.com/dmitrijs2005/userservice/internal/server/models"
	"github.com/dmitrijs2005/userservice/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"

	msgPong            = "pong!"
	msgFun             = "<h1>Hello, world!</h1>"
	msgInvalidPayload  = "Invalid payload."
	msgEmailExists     = "Sorry. That e-mail already exists."
	msgUserNotFound    = "User does not exist"
	msgInternal        = "Internal server error."
	msgTooManyRequests = "Too many requests."
)

// response is the envelope of every JSON reply.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type usersData struct {
	Users []*models.User `json:"users"`
}

func (s *Server) ping(c *fiber.Ctx) error {
	return c.JSON(response{Status: statusSuccess, Message: msgPong})
}

func (s *Server) fun(c *fiber.Ctx) error {
	return c.JSON(response{Status: statusSuccess, Message: msgFun})
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req services.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidPayload)
	}

	user, err := s.users.Create(c.UserContext(), req)
	if err != nil {
		return createError(err)
	}

	s.requestLogger(c).Info(c.UserContext(), "user created", "id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(response{
		Status:  statusSuccess,
		Message: user.Email + " was added!",
	})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, msgUserNotFound)
	}

	user, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.NewError(fiber.StatusNotFound, msgUserNotFound)
		}
		return err
	}

	return c.JSON(response{Status: statusSuccess, Data: user})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*models.User{}
	}

	return c.JSON(response{Status: statusSuccess, Data: usersData{Users: users}})
}

// createError maps a UserService.Create failure to the client-facing error.
// Anything unexpected is passed through and becomes a 500.
func createError(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidPayload)
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.NewError(fiber.StatusBadRequest, msgEmailExists)
	default:
		return err
	}
}

// errorHandler turns handler errors into {"status":"fail","message":...}.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgInternal

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		s.requestLogger(c).Error(c.UserContext(), "request failed", "error", err)
	}

	return c.Status(code).JSON(response{Status: statusFail, Message: message})
}
