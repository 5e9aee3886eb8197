package controller

import (
	"fmt"
	"log/slog"

	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/benbeisheim/metricchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

var log = slog.Default().With("package", "controller")

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router, normally /api/game.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves", gc.LegalMoves)
	router.Get("/:gameId/grid", gc.Grid)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/undo", gc.Undo)
	router.Post("/:gameId/redo", gc.Redo)
	router.Post("/:gameId/reset", gc.Reset)
	router.Post("/:gameId/engine", gc.RequestEngineMove)
	router.Delete("/:gameId/engine", gc.CancelEngineMove)
	router.Put("/:gameId/orientation", gc.SetOrientation)
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		}
	}

	resp, err := gc.gameService.CreateGame(playerID(c), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  resp.GameID,
		"color":   resp.Color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	color, err := gc.gameService.JoinGame(gameID, playerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Query("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidSquare, err))
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, playerID(c), move); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	if err := gc.gameService.Undo(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Redo(c *fiber.Ctx) error {
	if err := gc.gameService.Redo(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	if err := gc.gameService.Reset(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) RequestEngineMove(c *fiber.Ctx) error {
	var req struct {
		BudgetMs int `json:"budgetMs"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		}
	}
	if err := gc.gameService.RequestEngineMove(c.Params("gameId"), playerID(c), req.BudgetMs); err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "thinking",
	})
}

func (gc *GameController) CancelEngineMove(c *fiber.Ctx) error {
	canceled, err := gc.gameService.CancelEngineMove(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"canceled": canceled,
	})
}

func (gc *GameController) Grid(c *fiber.Ctx) error {
	grid, orientation, err := gc.gameService.Grid(c.Params("gameId"), c.Query("orientation"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"orientation": orientation,
		"grid":        grid,
	})
}

func (gc *GameController) SetOrientation(c *fiber.Ctx) error {
	var req struct {
		Orientation string `json:"orientation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
	}
	orientation, err := gc.gameService.SetOrientation(c.Params("gameId"), playerID(c), req.Orientation)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"orientation": orientation,
	})
}
