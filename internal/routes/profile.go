package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/innkeep/innkeep/internal/identity"
)

// RegisterProfileRoutes exposes the authenticated user's profile. Unlike
// token validation, a missing row here is a NotFound: the subject was
// already proven valid by the bearer middleware.
func RegisterProfileRoutes(r fiber.Router, store identity.Repository) {
	r.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := store.FindByID(c.UserContext(), uid)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "user not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "internal error")
		}
		return c.JSON(user)
	})

	r.Patch("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		var patch identity.ProfilePatch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := store.UpdateProfile(c.UserContext(), uid, patch)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "user not found")
			}
			return fiber.NewError(http.StatusInternalServerError, "internal error")
		}
		return c.JSON(user)
	})
}
