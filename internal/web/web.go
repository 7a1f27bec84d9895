package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"haru/internal/calendar"
	"haru/internal/task"
)

const maxBodySize = 64 << 10

// New returns an echo instance serving the task API over repo.
func New(repo *task.Repository, logger *log.Logger) *echo.Echo {
	return newServer(repo, logger, time.Now)
}

func newServer(repo *task.Repository, logger *log.Logger, now func() time.Time) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.Use(requestLogger(logger))
	Register(e, repo, logger, now)
	return e
}

// Register wires up all API routes on the provided Echo instance. now marks
// the current day in calendar responses.
func Register(e *echo.Echo, repo *task.Repository, logger *log.Logger, now func() time.Time) {
	e.GET("/api/tasks", getTasks(repo))
	e.POST("/api/tasks", postTask(repo, logger))
	e.PATCH("/api/tasks/:id", patchTask(repo, logger))
	e.DELETE("/api/tasks/:id", deleteTask(repo, logger))
	e.GET("/api/calendar/:year/:month", getCalendar(repo, now))
	e.GET("/healthz", healthz())
}

type tasksResponse struct {
	Tasks []task.Task `json:"tasks"`
	Count int         `json:"count"`
}

type createRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type calendarResponse struct {
	Month   string         `json:"month"`
	Title   string         `json:"title"`
	Leading int            `json:"leading"`
	Days    []calendar.Day `json:"days"`
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getTasks(repo *task.Repository) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := task.ParseStatus(c.QueryParam("status"))
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		rows := task.ListView(repo.List(), status)
		if rows == nil {
			rows = []task.Task{}
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: rows, Count: len(rows)})
	}
}

func postTask(repo *task.Repository, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		t, err := repo.Create(c.Request().Context(), req.Title, req.Date)
		if err != nil {
			return writeError(c, logger, err)
		}
		return c.JSON(http.StatusCreated, t)
	}
}

func patchTask(repo *task.Repository, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if _, ok := repo.Get(id); !ok {
			return c.String(http.StatusNotFound, "task not found")
		}
		var p task.Patch
		if err := decodeBody(c, &p); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if err := repo.Update(c.Request().Context(), id, p); err != nil {
			return writeError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteTask(repo *task.Repository, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if _, ok := repo.Get(id); !ok {
			return c.String(http.StatusNotFound, "task not found")
		}
		if err := repo.Delete(c.Request().Context(), id); err != nil {
			return writeError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getCalendar(repo *task.Repository, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year < 1 || year > 9999 {
			return c.String(http.StatusBadRequest, "invalid year")
		}
		month, err := strconv.Atoi(c.Param("month"))
		if err != nil || month < 1 || month > 12 {
			return c.String(http.StatusBadRequest, "invalid month")
		}
		m := calendar.Month{Year: year, Month: time.Month(month)}
		g := calendar.Layout(m, repo.List(), task.FormatDate(now()))
		return c.JSON(http.StatusOK, calendarResponse{
			Month:   m.String(),
			Title:   m.Title(),
			Leading: g.Leading,
			Days:    g.Days,
		})
	}
}

func decodeBody(c echo.Context, v any) error {
	return sonicSerializer{}.Deserialize(c, v)
}

func writeError(c echo.Context, logger *log.Logger, err error) error {
	if errors.Is(err, task.ErrEmptyTitle) || errors.Is(err, task.ErrInvalidDate) {
		return c.String(http.StatusBadRequest, err.Error())
	}
	logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
	return c.String(http.StatusInternalServerError, err.Error())
}
