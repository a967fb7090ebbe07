package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/lunara/internal/security"
)

var errInvalidSession = errors.New("invalid session")

// StartSession reuses a valid session cookie or issues a new anonymous
// profile. It never authenticates anyone.
func (handler *Handler) StartSession(c *fiber.Ctx) error {
	if profileID, err := handler.profileFromRequest(c); err == nil {
		return c.JSON(fiber.Map{"profile_id": profileID, "created": false})
	}

	profileID, err := security.NewProfileID()
	if err != nil {
		handler.log.Error("profile id generation failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}
	if err := handler.setSessionCookie(c, profileID); err != nil {
		handler.log.Error("session token signing failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}

	handler.log.Info("session started", "profile", profileID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"profile_id": profileID, "created": true})
}

func (handler *Handler) EndSession(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) SessionRequired(c *fiber.Ctx) error {
	profileID, err := handler.profileFromRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextProfileKey, profileID)
	return c.Next()
}

func (handler *Handler) profileFromRequest(c *fiber.Ctx) (string, error) {
	raw := strings.TrimSpace(c.Cookies(sessionCookieName))
	if raw == "" {
		return "", errInvalidSession
	}
	return handler.parseSessionToken(raw)
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, profileID string) error {
	token, err := handler.buildSessionToken(profileID, sessionTokenTTL)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(sessionTokenTTL),
	})
	return nil
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) buildSessionToken(profileID string, ttl time.Duration) (string, error) {
	now := handler.now()
	claims := sessionClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func (handler *Handler) parseSessionToken(raw string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errInvalidSession
	}
	if !security.IsProfileID(claims.ProfileID) {
		return "", errInvalidSession
	}
	return claims.ProfileID, nil
}
