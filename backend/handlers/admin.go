package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/achivio/achivio-core/achivio/chain"
)

// Admin routes run as the deployer principal; the admin token gate in
// front of them is the elevated-principal check.

func AdminMint(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Amount    uint64 `json:"amount"`
			Recipient string `json:"recipient"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		minted, err := web.App.Node.AdminMint(web.App.Node.Deployer(), req.Amount, chain.Principal(req.Recipient))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"minted": minted})
	}
}

func AdminAddMinter(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Minter string `json:"minter"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.AddTokenMinter(web.App.Node.Deployer(), chain.Principal(req.Minter)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func AdminRemoveMinter(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		minter := chain.Principal(c.Params("minter"))
		if err := web.App.Node.RemoveTokenMinter(web.App.Node.Deployer(), minter); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminSetPaused flips the circuit breaker on one contract.
func AdminSetPaused(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Contract string `json:"contract"`
			Paused   bool   `json:"paused"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		if err := web.App.Node.SetPaused(web.App.Node.Deployer(), req.Contract, req.Paused); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func AdminUpdateStreak(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			User           string `json:"user"`
			TasksCompleted uint64 `json:"tasks_completed"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		streak, err := web.App.Node.UpdateUserStreak(web.App.Node.Deployer(), chain.Principal(req.User), req.TasksCompleted)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"current_streak": streak})
	}
}

func AdminRecomputeStats(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := chain.Principal(c.Params("principal"))
		score, err := web.App.Node.RecomputeBoardEntry(user)
		if err != nil {
			return err
		}
		web.App.Board.Invalidate()
		return c.JSON(fiber.Map{
			"user":  user.String(),
			"score": score,
		})
	}
}

func AdminCheckpoint(web *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if web.App.Flusher == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "persistence not configured")
		}
		keep := web.App.Cfg.Chain.SnapshotsKept
		if keep <= 0 {
			keep = 5
		}
		if err := web.App.Checkpoint(c.Context(), keep); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"seq": web.App.Node.Seq()})
	}
}
