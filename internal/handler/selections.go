package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/program-selection/internal/middleware"
	"github.com/iliyamo/program-selection/internal/model"
	"github.com/iliyamo/program-selection/internal/repository"
)

// SelectionHandler records and lists program selections.
type SelectionHandler struct {
	Programs   ProgramStore
	Selections SelectionStore
	Events     SelectionPublisher // optional
	Log        logrus.FieldLogger
	Now        func() time.Time
}

// NewSelectionHandler wires a SelectionHandler.  events may be nil.
func NewSelectionHandler(programs ProgramStore, selections SelectionStore, events SelectionPublisher, log logrus.FieldLogger) *SelectionHandler {
	return &SelectionHandler{Programs: programs, Selections: selections, Events: events, Log: log, Now: time.Now}
}

// selectProgramReq is the POST /select-program body.  Pointers tell a missing
// field apart from an empty string: only missing fields are rejected.
type selectProgramReq struct {
	ProgramID   *string `json:"program_id" validate:"required"`
	ProgramName *string `json:"program_name" validate:"required"`
	UserSession *string `json:"user_session"`
}

// SelectProgram stores a selection of an existing program.  The program id
// is checked first and nothing is written when it is unknown.  program_name
// is stored as supplied, without comparing it to the program's name.
func (h *SelectionHandler) SelectProgram(c echo.Context) error {
	var req selectProgramReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	ctx := c.Request().Context()
	if _, err := h.Programs.GetByID(ctx, *req.ProgramID); err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			middleware.RecordSelection(middleware.SelectionNotFound)
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Program not found"})
		}
		middleware.RecordSelection(middleware.SelectionError)
		return storeFailure(c, h.Log, err)
	}

	sel := model.Selection{
		ID:          uuid.NewString(),
		ProgramID:   *req.ProgramID,
		ProgramName: *req.ProgramName,
		// DATETIME(6) keeps microseconds; truncating here makes the
		// response identical to what a later listing returns.
		SelectedAt:  h.now().UTC().Truncate(time.Microsecond),
		UserSession: req.UserSession,
	}
	if err := h.Selections.Create(ctx, &sel); err != nil {
		middleware.RecordSelection(middleware.SelectionError)
		return storeFailure(c, h.Log, err)
	}
	middleware.RecordSelection(middleware.SelectionCreated)

	if h.Events != nil {
		go h.publish(context.WithoutCancel(ctx), sel)
	}
	return c.JSON(http.StatusOK, sel)
}

// ListSelections returns every selection, most recent first.
func (h *SelectionHandler) ListSelections(c echo.Context) error {
	selections, err := h.Selections.ListRecent(c.Request().Context())
	if err != nil {
		return storeFailure(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, selections)
}

func (h *SelectionHandler) publish(ctx context.Context, sel model.Selection) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Events.PublishSelection(ctx, sel); err != nil {
		h.Log.WithError(err).WithField("selection_id", sel.ID).Warn("selection event not published")
	}
}

func (h *SelectionHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
