package login

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
	"github.com/guit-county/guit-portal/internal/web/session"
)

const (
	// Path is the path of the account endpoints below the api group.
	Path = "/auth"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	st       store.Store
	validate *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

type loginForm struct {
	Username resource.Text `json:"username"`
	Password resource.Text `json:"password"`
}

type registerForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Location  string `json:"location"`
}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.st = st
	s.validate = validator.New(validator.WithRequiredStructEnabled())

	// register routes
	router.Route(Path, func(router fiber.Router) {
		router.Post("/register", s.Register)
		router.Post("/login", s.Post)
		router.Get("/session", s.Session)
	})

	return nil
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

// Register creates an account from the registration form.
func (s *Service) Register(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	form := new(registerForm)
	if err = json.Unmarshal(body, form); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	form.Email = strings.TrimSpace(form.Email)

	if err = s.validate.Struct(form); err != nil {
		return fail(c, fiber.StatusBadRequest, formError(err))
	}

	ctx := c.UserContext()

	_, err = resource.FindUser(ctx, s.st, form.Email)
	switch {
	case err == nil:
		return fail(c, fiber.StatusBadRequest, MsgEmailRegistered)
	case !errors.Is(err, store.ErrNotFound):
		log.Error().Err(err).Msg("failed to look up user")
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	username, _, _ := strings.Cut(form.Email, "@")

	userBody, err := json.Marshal(fiber.Map{
		"username":  username,
		"email":     form.Email,
		"password":  form.Password,
		"firstName": form.FirstName,
		"lastName":  form.LastName,
		"phone":     form.Phone,
		"gender":    form.Gender,
		"location":  form.Location,
		"role":      s.cfg.Auth.RegisterRole,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	doc, err := resource.MustLookup(resource.CollectionUsers).NewDocument(userBody)
	if err == nil {
		err = s.st.Create(ctx, &doc)
	}

	if err != nil {
		if handler.IsClientError(err) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Str("email", form.Email).Msg("registration failed")

		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	log.Info().Str("username", username).Str("role", s.cfg.Auth.RegisterRole).Msg("user registered")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": MsgRegistered})
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	form := new(loginForm)
	if err = json.Unmarshal(body, form); err != nil {
		return fail(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
	}

	username := strings.TrimSpace(string(form.Username))
	log.Info().Str("username", username).Msg("login attempt")

	locked, err := session.Locked(username, s.cfg.Auth.MaxLoginAttempts)
	if err != nil {
		log.Error().Err(err).Msg("failed to read login attempts")
		return fail(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	if locked {
		log.Warn().Str("username", username).Msg("login locked out")
		return fail(c, fiber.StatusTooManyRequests, MsgTooManyAttempts)
	}

	ctx := c.UserContext()

	user, err := resource.FindUser(ctx, s.st, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("failed to look up user")
		return fail(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	if user == nil || (user.Status != "" && user.Status != resource.StatusActive) {
		return s.reject(c, username)
	}

	match, rehash, err := user.VerifyPassword(string(form.Password))
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to verify password")
		return fail(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	if !match {
		return s.reject(c, username)
	}

	if rehash {
		_, err = s.st.Update(ctx, resource.CollectionUsers, user.ID, func(doc *store.Document) error {
			return resource.SetPassword(doc, string(form.Password))
		})
		if err != nil {
			log.Warn().Err(err).Str("username", username).Msg("failed to rehash legacy password")
		}
	}

	if err = session.ClearFailures(username); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("failed to clear login attempts")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return fail(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	name := string(user.Username)
	if name == "" {
		name = string(user.FirstName)
	}

	userSession := &session.Data{
		User: session.User{
			ID:       user.ID,
			Username: name,
			Email:    string(user.Email),
			Role:     string(user.Role),
		},
	}

	expiry := s.cfg.Webserver.Session.ExpiryTime
	if err = userSession.Write(sessionID, expiry); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return fail(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(expiry.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("username", name).Str("role", string(user.Role)).Msg("login successful")

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"username": name,
			"role":     string(user.Role),
			"id":       user.ID,
		},
		"token":     sessionID,
		"expiresAt": userSession.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Service) reject(c *fiber.Ctx, username string) error {
	count, err := session.RecordFailure(username, s.cfg.Auth.LockoutDuration)
	if err != nil {
		log.Error().Err(err).Msg("failed to record login attempt")
	}

	log.Warn().Str("username", username).Int("attempts", count).Msg("invalid credentials")

	return fail(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
}

// Session answers the user of the current session.
func (s *Service) Session(c *fiber.Ctx) error {
	data := new(session.Data)
	if err := data.Read(session.Token(c)); err != nil {
		return fail(c, fiber.StatusUnauthorized, "Not logged in")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"user":      data.User,
		"expiresAt": data.ExpiresAt.Format(time.RFC3339),
	})
}

func formError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return strings.Join(msgs, ", ")
}
