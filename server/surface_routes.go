package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

func surfaceParam(c echo.Context, surfaces *display.Registry) (*display.Surface, error) {
	surface, err := surfaces.Surface(c.Param("surface"))
	if errors.Is(err, display.ErrInvalidSurfaceName) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return surface, err
}

// SelectRoute starts a lookup for a station on the named surface and
// answers 202 with the loading state. With ?wait=1 it blocks and answers
// with the state after the lookup completes instead. The lookup runs on
// baseCtx either way so a dropped client cannot strand the surface.
func SelectRoute(baseCtx context.Context, s *store.Store, surfaces *display.Registry, selector *display.Selector) func(c echo.Context) error {
	return func(c echo.Context) error {
		surface, err := surfaceParam(c, surfaces)
		if err != nil {
			return err
		}

		station, ok := s.Get(c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "station not found")
		}

		if wait := c.QueryParam("wait"); wait == "1" || wait == "true" {
			state, _ := selector.Select(baseCtx, surface, station)
			return c.JSON(http.StatusOK, state)
		}

		state := selector.SelectAsync(baseCtx, surface, station)
		return c.JSON(http.StatusAccepted, state)
	}
}

func SurfaceRoute(surfaces *display.Registry) func(c echo.Context) error {
	return func(c echo.Context) error {
		surface, err := surfaceParam(c, surfaces)
		if err != nil {
			return err
		}
		setNoStore(c)
		return c.JSON(http.StatusOK, surface.State())
	}
}

// SurfaceStreamRoute upgrades to a websocket and pushes every state the
// surface publishes, starting with the current one.
func SurfaceStreamRoute(surfaces *display.Registry) func(c echo.Context) error {
	return func(c echo.Context) error {
		surface, err := surfaceParam(c, surfaces)
		if err != nil {
			return err
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already written an error response
			return nil
		}
		defer conn.Close()

		updates, unsubscribe := surface.Subscribe()
		defer unsubscribe()

		// The read loop only exists to notice the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()

		for {
			select {
			case <-gone:
				return nil
			case <-c.Request().Context().Done():
				return nil
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					return nil
				}
			case state, ok := <-updates:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "surface closed"),
						time.Now().Add(wsWriteTimeout))
					return nil
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(state); err != nil {
					logger.Muted("websocket write to surface %s failed: %v", surface.Name(), err)
					return nil
				}
			}
		}
	}
}
