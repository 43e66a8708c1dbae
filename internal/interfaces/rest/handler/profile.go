package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/auth"
	"github.com/pot-code/go-storefront/internal/interfaces/rest/middleware"
	"github.com/pot-code/go-storefront/internal/validation"
)

// ProfileHandler operations on the signed in user, all routes require VerifyToken
type ProfileHandler struct {
	jwtUtil     *auth.JWTUtil
	userUseCase domain.UserUseCase
}

// NewProfileHandler create a profile controller instance
func NewProfileHandler(JWTUtil *auth.JWTUtil, UserUseCase domain.UserUseCase) *ProfileHandler {
	return &ProfileHandler{
		jwtUtil:     JWTUtil,
		userUseCase: UserUseCase,
	}
}

// InjectSessionEmail ValidateBody Prepare hook setting currentEmail from the
// session, whatever the client sent
func (ph *ProfileHandler) InjectSessionEmail(c echo.Context, payload validation.Payload) error {
	claims := ph.jwtUtil.ContextClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}
	payload["currentEmail"] = claims.Email
	return nil
}

func (ph *ProfileHandler) uid(c echo.Context) string {
	if claims := ph.jwtUtil.ContextClaims(c); claims != nil {
		return claims.UID
	}
	return ""
}

// HandleGetProfile current user profile
func (ph *ProfileHandler) HandleGetProfile(c echo.Context) error {
	user, err := ph.userUseCase.Profile(c.Request().Context(), ph.uid(c))
	if err != nil {
		return replyError(c, err)
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// HandleUpdateProfile must be chained after ValidateBody(updateProfile)
func (ph *ProfileHandler) HandleUpdateProfile(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	user, err := ph.userUseCase.UpdateProfile(c.Request().Context(), ph.uid(c), form.Value("name"))
	if err != nil {
		return replyError(c, err)
	}
	if err := ph.reissue(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// HandleUpdateEmail must be chained after ValidateBody(updateEmail) with InjectSessionEmail
func (ph *ProfileHandler) HandleUpdateEmail(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	user, err := ph.userUseCase.UpdateEmail(c.Request().Context(), ph.uid(c), form.Value("newEmail"), form.Value("password"))
	if err != nil {
		return replyError(c, err)
	}
	if err := ph.reissue(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// HandleUpdatePassword must be chained after ValidateBody(updatePassword)
func (ph *ProfileHandler) HandleUpdatePassword(c echo.Context) error {
	form := middleware.GetValidationResult(c)
	err := ph.userUseCase.UpdatePassword(c.Request().Context(), ph.uid(c), form.Value("currentPassword"), form.Value("newPassword"))
	if err != nil {
		return replyError(c, err)
	}
	return c.JSON(http.StatusOK, validation.Report(form))
}

// reissue refresh the session cookie so its claims follow the profile
func (ph *ProfileHandler) reissue(c echo.Context, user *domain.UserModel) error {
	_, err := ph.jwtUtil.Issue(c, user)
	return err
}
