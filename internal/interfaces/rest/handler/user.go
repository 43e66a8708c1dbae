package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/auth"
	"github.com/pot-code/go-storefront/internal/infrastructure/validate"
	"github.com/pot-code/go-storefront/internal/interfaces/rest/middleware"
	"github.com/pot-code/go-storefront/internal/validation"
)

// ProfileResponse public view of a user
type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newProfileResponse(user *domain.UserModel) *ProfileResponse {
	return &ProfileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// UserHandler sign up, sign in and password recovery
type UserHandler struct {
	jwtUtil     *auth.JWTUtil
	blacklist   *auth.TokenBlacklist
	userUseCase domain.UserUseCase
	validator   validate.Validator
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	Blacklist *auth.TokenBlacklist,
	UserUseCase domain.UserUseCase,
	Validator validate.Validator,
) *UserHandler {
	return &UserHandler{
		jwtUtil:     JWTUtil,
		blacklist:   Blacklist,
		userUseCase: UserUseCase,
		validator:   Validator,
	}
}

// HandleSignUp must be chained after ValidateBody(register)
func (uh *UserHandler) HandleSignUp(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	user, err := uh.userUseCase.SignUp(c.Request().Context(), &domain.UserModel{
		Name:     form.Value("name"),
		Email:    form.Value("email"),
		Password: form.Value("password"),
	})
	if err != nil {
		return replyError(c, err)
	}
	return c.JSON(http.StatusCreated, newProfileResponse(user))
}

// HandleSignIn must be chained after ValidateBody(login)
func (uh *UserHandler) HandleSignIn(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	user, err := uh.userUseCase.SignIn(c.Request().Context(), form.Value("email"), form.Value("password"))
	if err != nil {
		return replyError(c, err)
	}

	if _, err := uh.jwtUtil.Issue(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// HandleSignOut blacklist the session token until it expires
func (uh *UserHandler) HandleSignOut(c echo.Context) error {
	tokenStr, claims, err := uh.jwtUtil.Authenticate(c)
	if errors.Is(err, auth.ErrNoSession) {
		return c.NoContent(http.StatusOK)
	} else if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	if err := uh.blacklist.Revoke(c.Request().Context(), tokenStr, claims.TimeRemaining()); err != nil {
		return err
	}
	uh.jwtUtil.Clear(c)
	return c.NoContent(http.StatusOK)
}

// HandleUserExists report whether ?email= is registered
func (uh *UserHandler) HandleUserExists(c echo.Context) error {
	email := validation.CanonicalEmail(c.QueryParam("email"))
	if errs := uh.validator.Empty("email", email); errs != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", errs))
	}
	if !validation.IsEmail(email) {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params",
			[]*validate.FieldError{validate.NewFieldError("email", validation.MsgEmailInvalid)}))
	}

	existing, err := uh.userUseCase.Exists(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, existing)
}

// HandleForgotPassword must be chained after ValidateBody(forgotPassword).
// The reply does not reveal whether the email is registered.
func (uh *UserHandler) HandleForgotPassword(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	if err := uh.userUseCase.ForgotPassword(c.Request().Context(), form.Value("email")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, validation.Report(form))
}

// HandleResetPassword must be chained after ValidateBody(resetPassword)
func (uh *UserHandler) HandleResetPassword(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	if err := uh.userUseCase.ResetPassword(c.Request().Context(), c.Param("token"), form.Value("password")); err != nil {
		return replyError(c, err)
	}
	return c.JSON(http.StatusOK, validation.Report(form))
}
