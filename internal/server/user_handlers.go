package server

import (
	"fmt"
	"time"

	"microblog/internal/cache"
	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const userCacheTTL = 5 * time.Minute

// Home handles GET /home: the authenticated user's own profile. Profiles
// change rarely, so lookups go through the cache first.
func (s *Server) Home(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unauthorized"))
	}

	var user models.User
	key := fmt.Sprintf("user:%d", userID)
	hit, err := cache.Aside(c.Context(), s.redis, key, &user, userCacheTTL, func() error {
		u, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		if models.IsNotFound(err) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if hit {
		observability.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	return c.JSON(user)
}

// SessionStatus handles GET /: a lightweight probe clients use to check
// whether their cookie still holds a live session.
func (s *Server) SessionStatus(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unauthorized"))
	}

	return c.JSON(fiber.Map{
		"status":  "authenticated",
		"user_id": userID,
	})
}
