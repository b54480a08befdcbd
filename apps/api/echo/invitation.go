package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/classroom"
	"github.com/darasahq/darasa/core/invitation"
)

type invitationApi struct {
	classroomSvc  classroom.Service
	invitationSvc invitation.Service
	validate      *validator.Validate
}

func registerInvitationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := invitationApi{
		classroomSvc:  deps.ClassroomSvc,
		invitationSvc: deps.InvitationSvc,
		validate:      deps.Validate,
	}

	cg := g.Group("/classrooms/:id/invitations", jwt, teacherMiddleware())
	cg.POST("", api.create)
	cg.GET("", api.query)
}

// Handlers

func (api *invitationApi) create(ctx echo.Context) error {
	cls, err := api.ownedClassroom(ctx)
	if err != nil {
		return err
	}

	var data invitation.NewInvitation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvitation")
	}
	data.ClassroomID = cls.ID
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inv, err := api.invitationSvc.Issue(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *invitationApi) query(ctx echo.Context) error {
	cls, err := api.ownedClassroom(ctx)
	if err != nil {
		return err
	}

	invs, err := api.invitationSvc.QueryByClassroom(ctx.Request().Context(), cls.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, invs)
}

// ownedClassroom loads the classroom from the path and checks the caller teaches it.
func (api *invitationApi) ownedClassroom(ctx echo.Context) (classroom.Classroom, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "getting context claims")
	}

	cls, err := api.classroomSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return classroom.Classroom{}, err
	}
	if cls.TeacherID != claims.Subject {
		return classroom.Classroom{}, errHttpForbidden
	}
	return cls, nil
}
