// Package handlers exposes the contract operations over HTTP. Every
// mutating route runs as the authenticated principal from the request
// context, mirroring transaction-signer semantics.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/achivio/achivio-core/achivio"
	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/backend/middleware"
)

type WebApp struct {
	App     *achivio.App
	Version string
	Commit  string
}

func HealthCheck(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": web.Version,
			"commit":  web.Commit,
			"height":  web.App.Node.Height(),
			"date":    web.App.Node.CurrentDate(),
		})
	}
}

// Token handlers.

func TokenInfo(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(web.App.Node.TokenInfo())
	}
}

func TokenBalance(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		return c.JSON(fiber.Map{
			"principal": p.String(),
			"balance":   web.App.Node.Balance(p),
		})
	}
}

func TokenTransfer(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Amount    uint64 `json:"amount"`
			Recipient string `json:"recipient"`
			Memo      string `json:"memo"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		caller := middleware.Principal(c)
		if err := web.App.Node.Transfer(caller, req.Amount, chain.Principal(req.Recipient), req.Memo); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"balance": web.App.Node.Balance(caller),
		})
	}
}

func TokenBurn(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Amount uint64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		caller := middleware.Principal(c)
		burned, err := web.App.Node.Burn(caller, req.Amount)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"burned":  burned,
			"balance": web.App.Node.Balance(caller),
		})
	}
}

// Task handlers.

func TaskList(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if q := c.Query("q"); q != "" {
			limit := c.QueryInt("limit", 25)
			return c.JSON(web.App.Search.Search(q, limit))
		}
		return c.JSON(web.App.Node.TaskList())
	}
}

func TaskDetail(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		task, err := web.App.Node.Task(uint64(id))
		if err != nil {
			return err
		}
		return c.JSON(task)
	}
}

func TaskCreate(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Reward      uint64 `json:"reward_amount"`
			Category    string `json:"category"`
			Difficulty  uint64 `json:"difficulty"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		id, err := web.App.Node.CreateTask(middleware.Principal(c), req.Title, req.Description, req.Reward, req.Category, req.Difficulty)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task_id": id})
	}
}

func TaskComplete(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		caller := middleware.Principal(c)
		reward, err := web.App.Node.CompleteTask(caller, uint64(id))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"reward":  reward,
			"balance": web.App.Node.Balance(caller),
		})
	}
}

func TaskDeactivate(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.DeactivateTask(middleware.Principal(c), uint64(id)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func UserTaskProfile(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		profile, ok := web.App.Node.UserTaskProfile(p)
		if !ok {
			return fiber.ErrNotFound
		}
		return c.JSON(profile)
	}
}

func UserDailyStats(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		date := uint64(c.QueryInt("date", int(web.App.Node.CurrentDate())))
		return c.JSON(web.App.Node.UserDailyStats(p, date))
	}
}

// Streak handlers.

func UserStreak(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		st, _ := web.App.Node.UserStreak(p)
		return c.JSON(fiber.Map{
			"streak":         st,
			"next_milestone": web.App.Node.NextMilestone(p),
		})
	}
}

func StreakClaim(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Date uint64 `json:"date"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		caller := middleware.Principal(c)
		bonus, err := web.App.Node.ClaimStreakBonus(caller, req.Date)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"bonus":   bonus,
			"balance": web.App.Node.Balance(caller),
		})
	}
}

func StreakMilestone(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			User string `json:"user"`
			Tier uint64 `json:"tier"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		user := chain.Principal(req.User)
		if req.User == "" {
			user = middleware.Principal(c)
		}
		tokenID, err := web.App.Node.AwardMilestoneBadge(middleware.Principal(c), user, req.Tier)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"token_id": tokenID})
	}
}

// Badge handlers.

func BadgeDetail(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		badge, err := web.App.Node.Badge(uint64(id))
		if err != nil {
			return err
		}
		return c.JSON(badge)
	}
}

func UserBadges(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		return c.JSON(web.App.Node.BadgesOf(p))
	}
}

// Store handlers.

func StoreTemplates(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(web.App.Node.Templates())
	}
}

func StorePurchase(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			TemplateID uint64 `json:"template_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		caller := middleware.Principal(c)
		itemID, err := web.App.Node.PurchaseItem(caller, req.TemplateID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"item_id": itemID,
			"balance": web.App.Node.Balance(caller),
		})
	}
}

func StorePlace(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		var req struct {
			Position rooms.Vec3 `json:"position"`
			Rotation rooms.Vec3 `json:"rotation"`
			Scale    uint64     `json:"scale"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.PlaceItemInRoom(middleware.Principal(c), uint64(id), req.Position, req.Rotation, req.Scale); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func StoreRemove(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.RemoveItemFromRoom(middleware.Principal(c), uint64(id)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func StoreRoomTheme(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Theme           string `json:"theme"`
			BackgroundMusic string `json:"background_music"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.ChangeRoomTheme(middleware.Principal(c), req.Theme, req.BackgroundMusic); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func UserRoom(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		room, _ := web.App.Node.UserRoom(p)
		return c.JSON(fiber.Map{
			"room":  room,
			"items": web.App.Node.ItemsOf(p),
		})
	}
}

// Leaderboard handlers.

func LeaderboardTop(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boardType := uint64(c.QueryInt("board_type", int(board.BoardOverall)))
		timeframe := uint64(c.QueryInt("timeframe", int(board.TimeframeAllTime)))
		limit := c.QueryInt("limit", 25)
		return c.JSON(web.App.Board.Top(boardType, timeframe, limit))
	}
}

func LeaderboardRank(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		boardType := uint64(c.QueryInt("board_type", int(board.BoardOverall)))
		timeframe := uint64(c.QueryInt("timeframe", int(board.TimeframeAllTime)))
		rank, err := web.App.Node.UserRank(p, boardType, timeframe)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"principal": p.String(),
			"rank":      rank,
		})
	}
}

func LeaderboardCompare(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := chain.Principal(c.Params("a"))
		b := chain.Principal(c.Params("b"))
		result, err := web.App.Node.CompareUsers(a, b)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

func UserAchievements(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(c.Params("principal"))
		result, err := web.App.Node.UserAchievements(p)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

func SetProfile(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			DisplayName       string `json:"display_name"`
			IsPublic          bool   `json:"is_public"`
			ShowInLeaderboard bool   `json:"show_in_leaderboard"`
			FavoriteCategory  string `json:"favorite_category"`
			Bio               string `json:"bio"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.SetUserProfile(middleware.Principal(c), req.DisplayName, req.IsPublic, req.ShowInLeaderboard, req.FavoriteCategory, req.Bio); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
