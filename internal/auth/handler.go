package auth

import (
	"strings"

	"agrilink-backend/internal/config"
	"agrilink-backend/internal/database"
	"agrilink-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	District string `json:"district" validate:"max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a user with the role fixed by the route
// (register-farmer, register-buyer, register-officer).
func RegisterHandler(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email is already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			District:     body.District,
			PasswordHash: string(hash),
			Role:         role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"role":     user.Role,
			"district": user.District,
		})
	}
}

// LoginHandler authenticates a user of the role fixed by the route. A valid
// password with the wrong role is still a 401, so the farmer and buyer login
// forms cannot be used interchangeably.
func LoginHandler(cfg *config.Config, role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ? AND role = ?", body.Email, role).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email or password incorrect")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email or password incorrect")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       user.ID,
				"name":     user.Name,
				"email":    user.Email,
				"phone":    user.Phone,
				"district": user.District,
				"role":     user.Role,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"user_id":  user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"district": user.District,
			"role":     user.Role,
		})
	}
}

// ListFarmersHandler lets extension officers look up farmers, optionally by
// district, e.g. to address a bulk SMS advisory.
func ListFarmersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{}).Where("role = ?", models.RoleFarmer)

		if district := c.Query("district"); district != "" {
			dbq = dbq.Where("district = ?", district)
		}

		var farmers []models.User
		if err := dbq.Order("name asc").Find(&farmers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list farmers")
		}

		resp := make([]fiber.Map, 0, len(farmers))
		for _, f := range farmers {
			resp = append(resp, fiber.Map{
				"id":       f.ID,
				"name":     f.Name,
				"phone":    f.Phone,
				"district": f.District,
			})
		}

		return c.JSON(resp)
	}
}
