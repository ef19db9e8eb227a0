package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"google.golang.org/api/option"
)

const userIDKey = "userID"

// TokenVerifier is the slice of the Firebase Auth client the middleware
// needs; tests substitute a mock.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuth validates Firebase ID tokens and stores the caller's UID
// in both Fiber locals and the request context.
func FirebaseAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format, expected 'Bearer <token>'",
			})
		}

		decodedToken, err := verifier.VerifyIDToken(c.UserContext(), parts[1])
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "token expired",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals(userIDKey, decodedToken.UID)
		c.SetUserContext(WithPrincipal(c.UserContext(), decodedToken.UID))
		return c.Next()
	}
}

// InitFirebase initializes the Firebase Admin SDK from environment
// configuration. The private key arrives base64 encoded.
func InitFirebase(ctx context.Context, projectID, privateKeyB64, clientEmail string) (*firebase.App, error) {
	privateKey, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, err
	}

	credentialsJSON, err := json.Marshal(map[string]interface{}{
		"type":         "service_account",
		"project_id":   projectID,
		"private_key":  string(privateKey),
		"client_email": clientEmail,
	})
	if err != nil {
		return nil, err
	}

	return firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON(credentialsJSON))
}

// GetUserID extracts the user ID from Fiber context.
// Should only be called after an auth middleware.
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
