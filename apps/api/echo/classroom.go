package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/classroom"
)

type classroomApi struct {
	classroomSvc classroom.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := classroomApi{classroomSvc: deps.ClassroomSvc}

	g.GET("/classrooms", api.query, jwt, teacherMiddleware())
}

// query lists the classrooms taught by the caller.
func (api *classroomApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	classrooms, err := api.classroomSvc.QueryByTeacher(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classrooms)
}
