// Package handler exposes the HTTP handlers of the program selection API.
// This file defines the catalog read endpoints: the ordered listing and the
// lookup by id.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/program-selection/internal/repository"
)

// ProgramHandler serves the read-only catalog.
type ProgramHandler struct {
	Programs ProgramStore
	Log      logrus.FieldLogger
}

// NewProgramHandler wires a ProgramHandler.
func NewProgramHandler(programs ProgramStore, log logrus.FieldLogger) *ProgramHandler {
	return &ProgramHandler{Programs: programs, Log: log}
}

// ListPrograms returns every program ordered by name.  The full catalog is
// returned on each call; there is no pagination.
func (h *ProgramHandler) ListPrograms(c echo.Context) error {
	programs, err := h.Programs.ListAll(c.Request().Context())
	if err != nil {
		return storeFailure(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, programs)
}

// GetProgram returns the program whose id equals the path parameter exactly.
func (h *ProgramHandler) GetProgram(c echo.Context) error {
	p, err := h.Programs.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Program not found"})
		}
		return storeFailure(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// storeFailure logs err and answers a generic 500.
func storeFailure(c echo.Context, log logrus.FieldLogger, err error) error {
	log.WithError(err).WithField("route", c.Path()).Error("store request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
}
