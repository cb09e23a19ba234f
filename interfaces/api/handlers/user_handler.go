package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

// CookieSettings cookie ที่เก็บ JWT ให้ browser ส่งมาเอง
type CookieSettings struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type UserHandler struct {
	userService services.UserService
	cookie      CookieSettings
}

func NewUserHandler(userService services.UserService, cookie CookieSettings) *UserHandler {
	if cookie.Name == "" {
		cookie.Name = "loft_token"
	}
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
	}
}

func (h *UserHandler) setTokenCookie(c *fiber.Ctx, token string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: "Lax",
	})
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	logger.InfoContext(ctx, "Registration attempt", "email", req.Email, "username", req.Username)

	token, user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return HandleServiceError(c, err)
	}

	h.setTokenCookie(c, token, int(h.cookie.TTL.Seconds()))
	return utils.CreatedResponse(c, &dto.RegisterResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	token, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "email", req.Email, "reason", err.Error())
		return utils.UnauthorizedResponse(c, "Invalid credentials")
	}

	h.setTokenCookie(c, token, int(h.cookie.TTL.Seconds()))
	return utils.SuccessResponse(c, &dto.LoginResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}

// Logout ลบ cookie ฝั่ง client ส่วน token แบบ Bearer หมดอายุเอง
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	h.setTokenCookie(c, "", -1)
	return utils.SuccessResponse(c, dto.MessageResponse{Message: "Logged out"})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userService.GetProfile(ctx, user.ID)
	if err != nil {
		return HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(profile))
}
