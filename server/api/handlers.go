package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sessionResponse struct {
	ID   string      `json:"id"`
	View screen.View `json:"view"`
}

type fileRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) getRoster(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{
		"engines": scan.Roster,
		"labels":  scan.MalwareLabels,
	})
}

func (s *Server) session(c echo.Context) (*Session, bool) {
	return s.sessions.Get(c.Param("id"))
}

func sessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorResponse{Code: "SESSION_NOT_FOUND", Message: "session not found"})
}

// screenError maps a rejected action onto an HTTP status
func screenError(c echo.Context, err error) error {
	var se *screen.ScreenError
	if !errors.As(err, &se) {
		return err
	}
	status := http.StatusConflict
	if errors.Is(err, screen.ErrInvalidFile) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorResponse{Code: se.Code, Message: se.Error()})
}

func respond(c echo.Context, status int, sess *Session) error {
	return c.JSON(status, sessionResponse{ID: sess.ID, View: sess.Screen.View()})
}

func (s *Server) createSession(c echo.Context) error {
	sess := s.sessions.Create()
	return respond(c, http.StatusCreated, sess)
}

func (s *Server) getSession(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	return respond(c, http.StatusOK, sess)
}

func (s *Server) deleteSession(c echo.Context) error {
	id := c.Param("id")
	if !s.sessions.Delete(id) {
		return sessionNotFound(c)
	}
	s.wsHub.CloseSession(id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) selectFile(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}

	var req fileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid request body"})
	}

	file := screen.SelectedFile{Name: req.Name, Size: req.Size, MIMEType: req.Type}
	if err := sess.Screen.SelectFile(file); err != nil {
		return screenError(c, err)
	}
	return respond(c, http.StatusOK, sess)
}

func (s *Server) startScan(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	if err := sess.Screen.StartScan(s.scanCtx); err != nil {
		return screenError(c, err)
	}
	return respond(c, http.StatusAccepted, sess)
}

func (s *Server) cancel(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	if err := sess.Screen.Cancel(); err != nil {
		return screenError(c, err)
	}
	return respond(c, http.StatusOK, sess)
}

func (s *Server) reset(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	if err := sess.Screen.Reset(); err != nil {
		return screenError(c, err)
	}
	return respond(c, http.StatusOK, sess)
}
