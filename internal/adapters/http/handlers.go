package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/core/usecases"
)

// BoardsResponse is the body of GET /v1/boards. Origins that could not be
// scraped are listed in Failed rather than failing the whole request.
type BoardsResponse struct {
	Data   []domain.StationAndServices `json:"data"`
	Failed []usecases.FailedOrigin     `json:"failed"`
}

// ListOriginsHandler returns the configured origins and their calling points.
func ListOriginsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origins, err := deps.Boards.Origins(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset, limit := pageParams(c, 100, 200)
		total := len(origins)
		origins = page(origins, offset, limit)

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: origins, Pagination: pg})
	}
}

// ListBoardsHandler scrapes every configured origin on demand.
func ListBoardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results, err := deps.Boards.Boards(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		resp := BoardsResponse{
			Data:   []domain.StationAndServices{},
			Failed: []usecases.FailedOrigin{},
		}
		for _, r := range results {
			if !r.OK() {
				LoggerFromCtx(c.UserContext()).Warn("board unavailable", "origin", r.Origin, "error", r.Err)
				resp.Failed = append(resp.Failed, usecases.FailedOrigin{Origin: r.Origin, Error: r.Err.Error()})
				continue
			}
			resp.Data = append(resp.Data, *r.Board)
		}
		return c.JSON(resp)
	}
}

// GetBoardHandler scrapes a single configured origin on demand.
func GetBoardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := url.PathUnescape(c.Params("origin"))
		if err != nil || origin == "" {
			return errBadRequest(c, "invalid origin")
		}

		board, err := deps.Boards.Board(c.UserContext(), origin)
		if err != nil {
			return errFromScrape(c, err)
		}
		return c.JSON(board)
	}
}

// LatestBoardsHandler returns the most recently published board per station.
func LatestBoardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Latest == nil {
			return errServiceUnavailable(c, "published boards not available")
		}
		return c.JSON(fiber.Map{"data": deps.Latest.All()})
	}
}

// LatestBoardHandler returns the most recently published board for one station.
func LatestBoardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Latest == nil {
			return errServiceUnavailable(c, "published boards not available")
		}
		station, err := url.PathUnescape(c.Params("station"))
		if err != nil || station == "" {
			return errBadRequest(c, "invalid station")
		}

		board, ok := deps.Latest.Get(station)
		if !ok {
			return errNotFound(c, "no board published for "+station)
		}
		return c.JSON(board)
	}
}
