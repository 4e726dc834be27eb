package auth

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/tokengate/auth-service/middleware/jwtware"
)

// AuthControllerRoutes are the endpoint paths the controller registers.
type AuthControllerRoutes struct {
	Login         string
	Register      string
	RegisterAdmin string
}

// AuthController exposes the orchestrator over a JSON API.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:         "/auth/login",
			Register:      "/auth/register",
			RegisterAdmin: "/auth/register/admin",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller. The admin registration route is
// wrapped by the provided middleware, which must reject tokens without the
// Admin role.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, adminGate fiber.Handler) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.RegisterAdmin, adminGate, controller.AdminRegistrationCreate)
}

// NewAdminGate builds the bearer middleware protecting the admin
// registration endpoint.
func NewAdminGate(validator TokenValidatorFunc) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator: validator,
		RequiredRole:   RoleAdmin,
	})
}

// TokenValidatorFunc adapts TokenService.Validate to the jwtware contract.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

func (f TokenValidatorFunc) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := f(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload", "error", err)
		return a.renderValidationError(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.UserContext(), *payload)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"token": token,
	})
}

func (a *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	return a.registrationCreate(ctx, a.Auther.Register)
}

func (a *AuthController) AdminRegistrationCreate(ctx *fiber.Ctx) error {
	return a.registrationCreate(ctx, a.Auther.RegisterAdmin)
}

func (a *AuthController) registrationCreate(ctx *fiber.Ctx, register func(c context.Context, req RegisterRequest) (string, error)) error {
	payload := new(RegisterRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return a.renderValidationError(ctx, err)
	}

	message, err := register(ctx.UserContext(), *payload)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
	})
}

func (a *AuthController) renderValidationError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "VALIDATION_FAILED",
		"message": "Error validating payload",
		"fields":  FormatValidationErrorToMap(err),
	})
}

func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		a.Logger.Error("unhandled controller error", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "INTERNAL",
			"message": "Internal Server Error",
		})
	}

	status := statusForError(richErr)
	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("controller error", "error", err)
		// never leak internals past the boundary
		return ctx.Status(status).JSON(fiber.Map{
			"error":   "INTERNAL",
			"message": "Internal Server Error",
		})
	}

	body := fiber.Map{
		"error":   richErr.TextCode,
		"message": richErr.Message,
	}

	return ctx.Status(status).JSON(body)
}

func statusForError(err *errors.Error) int {
	if err.Code > 0 {
		return int(err.Code)
	}

	switch err.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
