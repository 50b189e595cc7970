// middleware/client.go - Browser client identity
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ClientCookie = "eventhub_client"
	clientKey    = "clientId"
)

// ClientID makes sure every browser carries a client id cookie. Held
// protected actions are keyed by it.
func ClientID(secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(ClientCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(clientKey, id)
		return c.Next()
	}
}

func GetClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(clientKey).(string)
	return id
}
