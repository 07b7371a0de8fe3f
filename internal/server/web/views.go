package web

import (
	"bytes"
	"embed"
	"errors"

	"github.com/dmitrijs2005/userservice/internal/common"
	"github.com/dmitrijs2005/userservice/internal/server/models"
	"github.com/dmitrijs2005/userservice/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templates embed.FS

type indexPage struct {
	Users []*models.User
}

// index renders every user, or a placeholder when there are none.
func (s *Server) index(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.indexTmpl.Execute(&buf, indexPage{Users: users}); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// indexCreate handles the form on the users page. Rejected submissions are
// logged and the browser is sent back to the list either way.
func (s *Server) indexCreate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := s.requestLogger(c)

	var req services.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn(ctx, "unreadable form submission", "error", err)
		return c.Redirect("/", fiber.StatusFound)
	}

	user, err := s.users.Create(ctx, req)
	switch {
	case err == nil:
		log.Info(ctx, "user created", "id", user.ID)
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists):
		log.Warn(ctx, "form submission rejected", "error", err)
	default:
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}
