// handlers/auth_routes.go
package handlers

import (
	"time"

	"loyalty-mission-system/middleware"
	"loyalty-mission-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

func SetupAuthRoutes(app *fiber.App, identity *services.IdentityService, oauth *services.OAuthService, tokens *services.TokenService) {
	api := app.Group("/api/v1")

	api.Post("/members/signup", func(c *fiber.Ctx) error {
		var req struct {
			Email       string   `json:"email" validate:"required,email"`
			Password    string   `json:"password" validate:"required,min=8"`
			Name        string   `json:"name" validate:"required"`
			Nickname    *string  `json:"nickname"`
			Gender      string   `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
			Birthdate   string   `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
			PhoneNumber string   `json:"phone_number"`
			Preferences []string `json:"preferences" validate:"dive,required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "V001", "reason": "invalid request body"})
		}
		if verr := services.ValidateStruct(req); verr != nil {
			return c.Status(verr.Status).JSON(verr)
		}

		in := services.SignUpInput{
			Email:       req.Email,
			Password:    req.Password,
			Name:        req.Name,
			Nickname:    req.Nickname,
			Gender:      req.Gender,
			PhoneNumber: req.PhoneNumber,
			Preferences: req.Preferences,
		}
		if req.Birthdate != "" {
			birthdate, _ := time.Parse("2006-01-02", req.Birthdate)
			in.Birthdate = &birthdate
		}

		member, err := identity.SignUp(in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(member)
	})

	api.Post("/members/login", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "V001", "reason": "invalid request body"})
		}
		if verr := services.ValidateStruct(req); verr != nil {
			return c.Status(verr.Status).JSON(verr)
		}

		pair, err := identity.Login(req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pair)
	})

	api.Get("/members/:memberId", middleware.RequireAuth(tokens), middleware.RequireSelf(), func(c *fiber.Ctx) error {
		member, err := identity.Profile(middleware.MemberID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(member)
	})

	if oauth == nil || !oauth.Enabled() {
		return
	}

	app.Get("/oauth2/login/google", func(c *fiber.Ctx) error {
		state := uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
		})
		return c.Redirect(oauth.AuthURL(state), fiber.StatusTemporaryRedirect)
	})

	app.Get("/oauth2/callback/google", func(c *fiber.Ctx) error {
		state := c.Query("state")
		if state == "" || state != c.Cookies(oauthStateCookie) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errorCode": "AUTH002", "reason": "oauth state mismatch"})
		}
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorCode": "V001", "reason": "missing authorization code"})
		}

		pair, err := oauth.HandleCallback(c.Context(), code)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pair)
	})
}
