package audit

import (
	"encoding/json"
	"strings"

	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var sensitiveKeys = map[string]bool{
	"password":      true,
	"token":         true,
	"authorization": true,
}

// Middleware records every mutating request after it succeeds. Audit
// failures are logged and never affect the response.
func Middleware(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()
		if method == fiber.MethodGet || method == fiber.MethodHead || method == fiber.MethodOptions {
			return c.Next()
		}

		// capture before the handler runs, the body buffer may be reused
		metadata := filteredBody(c.Body())
		path := c.OriginalURL()

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			return nil
		}

		var userID *uint
		if id, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			userID = &id
		}

		entry := models.AuditLog{
			UserID:   userID,
			Method:   method,
			Path:     path,
			Metadata: metadata,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			log.Errorw("cannot write audit log", "path", path, "error", err)
		}
		return nil
	}
}

func filteredBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "" // non-JSON bodies (file uploads) are not recorded
	}

	for k := range parsed {
		if sensitiveKeys[strings.ToLower(k)] {
			parsed[k] = "[FILTERED]"
		}
	}

	out, err := json.Marshal(parsed)
	if err != nil {
		return ""
	}
	return string(out)
}
