package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/enrollment"
)

type joinApi struct {
	enrollmentSvc enrollment.Service
	validate      *validator.Validate
}

func registerJoinAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := joinApi{
		enrollmentSvc: deps.EnrollmentSvc,
		validate:      deps.Validate,
	}

	// every entry point funnels into the same join pipeline
	ag := g.Group("", jwt)
	ag.POST("/classrooms/join", api.join)        // manual / pasted code entry
	ag.GET("/join", api.joinByURL)               // shared link with ?code=
	ag.POST("/classrooms/join/qr", api.joinQR)   // decoded QR payload
}

// JoinCodeRequest is a manually typed or pasted code.
type JoinCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

func (r *JoinCodeRequest) Validate(validate *validator.Validate) error {
	r.Code = core.CleanString(r.Code)
	return validate.Struct(r)
}

// QRJoinRequest carries the decoded text payload of a scanned QR image;
// it may be a bare code or a full join URL.
type QRJoinRequest struct {
	Payload string `json:"payload" validate:"required"`
}

func (r *QRJoinRequest) Validate(validate *validator.Validate) error {
	r.Payload = core.CleanString(r.Payload)
	return validate.Struct(r)
}

// JoinResponse reports the outcome of a join attempt; AlreadyMember is
// informational and still a success.
type JoinResponse struct {
	enrollment.JoinResult
	Message string `json:"message"`
}

// Handlers

func (api *joinApi) join(ctx echo.Context) error {
	var data JoinCodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinCodeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return api.doJoin(ctx, data.Code)
}

func (api *joinApi) joinByURL(ctx echo.Context) error {
	code := core.CleanString(ctx.QueryParam("code"))
	if code == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "code", Error: "this field is required"})
	}
	return api.doJoin(ctx, code)
}

func (api *joinApi) joinQR(ctx echo.Context) error {
	var data QRJoinRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QRJoinRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return api.doJoin(ctx, data.Payload)
}

func (api *joinApi) doJoin(ctx echo.Context, rawInput string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.enrollmentSvc.Join(ctx.Request().Context(), enrollment.JoinRequest{
		RawInput:    rawInput,
		UserID:      claims.Subject,
		StudentName: claims.Name,
	})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Joined %s!", res.Classroom.Name)
	if res.AlreadyMember {
		msg = fmt.Sprintf("You are already a member of %s.", res.Classroom.Name)
	}
	return ctx.JSON(http.StatusOK, JoinResponse{JoinResult: res, Message: msg})
}
