package node

import (
	"fmt"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/badges"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/contracts/token"
)

// Argument payloads for the journal. Field names line up with the replay
// decoders in replay.go.

type transferArgs struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
	Memo      string `json:"memo,omitempty"`
}

type mintArgs struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

type burnArgs struct {
	Amount uint64 `json:"amount"`
}

type minterArgs struct {
	Minter string `json:"minter"`
}

type createTaskArgs struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	RewardAmount uint64 `json:"reward_amount"`
	Category     string `json:"category"`
	Difficulty   uint64 `json:"difficulty"`
}

type taskIDArgs struct {
	TaskID uint64 `json:"task_id"`
}

type userArgs struct {
	User string `json:"user"`
}

type updateStreakArgs struct {
	User           string `json:"user"`
	TasksCompleted uint64 `json:"tasks_completed"`
}

type claimBonusArgs struct {
	Date uint64 `json:"date"`
}

type milestoneArgs struct {
	User string `json:"user"`
	Tier uint64 `json:"tier"`
}

type mintBadgeArgs struct {
	Recipient  string `json:"recipient"`
	StreakTier uint64 `json:"streak_tier"`
}

type purchaseArgs struct {
	TemplateID uint64 `json:"template_id"`
}

type placeArgs struct {
	ItemID   uint64     `json:"item_id"`
	Position rooms.Vec3 `json:"position"`
	Rotation rooms.Vec3 `json:"rotation"`
	Scale    uint64     `json:"scale"`
}

type itemIDArgs struct {
	ItemID uint64 `json:"item_id"`
}

type themeArgs struct {
	Theme           string `json:"theme"`
	BackgroundMusic string `json:"background_music"`
}

type statsArgs struct {
	User           string `json:"user"`
	TasksCompleted uint64 `json:"tasks_completed"`
	RewardsEarned  uint64 `json:"rewards_earned"`
	CurrentStreak  uint64 `json:"current_streak"`
	LongestStreak  uint64 `json:"longest_streak"`
	BadgesCount    uint64 `json:"badges_count"`
	Level          uint64 `json:"level"`
}

type profileArgs struct {
	DisplayName       string `json:"display_name"`
	IsPublic          bool   `json:"is_public"`
	ShowInLeaderboard bool   `json:"show_in_leaderboard"`
	FavoriteCategory  string `json:"favorite_category"`
	Bio               string `json:"bio"`
}

type pauseArgs struct {
	Paused bool `json:"paused"`
}

// Token operations.

func (n *Node) Transfer(caller chain.Principal, amount uint64, recipient chain.Principal, memo string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Token.Transfer(caller, amount, caller, recipient, memo); err != nil {
		n.abort()
		return err
	}
	n.commit(token.ContractName, "transfer", caller, transferArgs{Amount: amount, Recipient: recipient.String(), Memo: memo})
	return nil
}

func (n *Node) MintReward(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	minted, err := n.Token.MintReward(caller, amount, recipient)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(token.ContractName, "mint-reward", caller, mintArgs{Amount: amount, Recipient: recipient.String()})
	return minted, nil
}

func (n *Node) AdminMint(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	minted, err := n.Token.AdminMint(caller, amount, recipient)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(token.ContractName, "admin-mint", caller, mintArgs{Amount: amount, Recipient: recipient.String()})
	return minted, nil
}

func (n *Node) Burn(caller chain.Principal, amount uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	burned, err := n.Token.Burn(caller, amount, caller)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(token.ContractName, "burn", caller, burnArgs{Amount: amount})
	return burned, nil
}

func (n *Node) AddTokenMinter(caller, minter chain.Principal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Token.AddAuthorizedMinter(caller, minter); err != nil {
		n.abort()
		return err
	}
	n.commit(token.ContractName, "add-authorized-minter", caller, minterArgs{Minter: minter.String()})
	return nil
}

func (n *Node) RemoveTokenMinter(caller, minter chain.Principal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Token.RemoveAuthorizedMinter(caller, minter); err != nil {
		n.abort()
		return err
	}
	n.commit(token.ContractName, "remove-authorized-minter", caller, minterArgs{Minter: minter.String()})
	return nil
}

// SetPaused flips the circuit breaker on one contract.
func (n *Node) SetPaused(caller chain.Principal, contract string, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.setPaused(caller, contract, paused); err != nil {
		n.abort()
		return err
	}
	n.commit(contract, "set-paused", caller, pauseArgs{Paused: paused})
	return nil
}

func (n *Node) setPaused(caller chain.Principal, contract string, paused bool) error {
	type pausable struct {
		pause   func(chain.Principal) error
		unpause func(chain.Principal) error
	}
	targets := map[string]pausable{
		token.ContractName:   {n.Token.Pause, n.Token.Unpause},
		badges.ContractName:  {n.Badges.Pause, n.Badges.Unpause},
		tasks.ContractName:   {n.Tasks.Pause, n.Tasks.Unpause},
		streaks.ContractName: {n.Streaks.Pause, n.Streaks.Unpause},
		rooms.ContractName:   {n.Rooms.Pause, n.Rooms.Unpause},
		board.ContractName:   {n.Board.Pause, n.Board.Unpause},
	}
	t, ok := targets[contract]
	if !ok {
		return fmt.Errorf("unknown contract %q", contract)
	}
	if paused {
		return t.pause(caller)
	}
	return t.unpause(caller)
}

// Task tracker operations.

func (n *Node) CreateTask(caller chain.Principal, title, description string, rewardAmount uint64, category string, difficulty uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id, err := n.Tasks.CreateTask(caller, title, description, rewardAmount, category, difficulty)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(tasks.ContractName, "create-task", caller, createTaskArgs{
		Title:        title,
		Description:  description,
		RewardAmount: rewardAmount,
		Category:     category,
		Difficulty:   difficulty,
	})
	return id, nil
}

func (n *Node) CompleteTask(caller chain.Principal, taskID uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	reward, err := n.Tasks.CompleteTask(caller, taskID)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(tasks.ContractName, "complete-task", caller, taskIDArgs{TaskID: taskID})
	return reward, nil
}

func (n *Node) DeactivateTask(caller chain.Principal, taskID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Tasks.DeactivateTask(caller, taskID); err != nil {
		n.abort()
		return err
	}
	n.commit(tasks.ContractName, "deactivate-task", caller, taskIDArgs{TaskID: taskID})
	return nil
}

func (n *Node) UpdateUserLevel(caller, user chain.Principal) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	level, err := n.Tasks.UpdateUserLevel(caller, user)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(tasks.ContractName, "update-user-level", caller, userArgs{User: user.String()})
	return level, nil
}

// Streak operations.

func (n *Node) UpdateUserStreak(caller, user chain.Principal, tasksCompletedToday uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	streak, err := n.Streaks.UpdateUserStreak(caller, user, tasksCompletedToday)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(streaks.ContractName, "update-user-streak", caller, updateStreakArgs{User: user.String(), TasksCompleted: tasksCompletedToday})
	return streak, nil
}

func (n *Node) ClaimStreakBonus(caller chain.Principal, date uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	bonus, err := n.Streaks.ClaimStreakBonus(caller, date)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(streaks.ContractName, "claim-streak-bonus", caller, claimBonusArgs{Date: date})
	return bonus, nil
}

func (n *Node) AwardMilestoneBadge(caller, user chain.Principal, tier uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tokenID, err := n.Streaks.AwardMilestoneBadge(caller, user, tier)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(streaks.ContractName, "award-milestone-badge", caller, milestoneArgs{User: user.String(), Tier: tier})
	return tokenID, nil
}

// Badge operations. Direct mints bypass the streak milestones and need the
// caller to be an authorized badge minter.

func (n *Node) MintStreakBadge(caller, recipient chain.Principal, streakTier uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tokenID, err := n.Badges.MintStreakBadge(caller, recipient, streakTier)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(badges.ContractName, "mint-streak-badge", caller, mintBadgeArgs{Recipient: recipient.String(), StreakTier: streakTier})
	return tokenID, nil
}

// Room store operations.

func (n *Node) PurchaseItem(caller chain.Principal, templateID uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	itemID, err := n.Rooms.PurchaseItem(caller, templateID)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(rooms.ContractName, "purchase-item", caller, purchaseArgs{TemplateID: templateID})
	return itemID, nil
}

func (n *Node) PlaceItemInRoom(caller chain.Principal, itemID uint64, position, rotation rooms.Vec3, scale uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Rooms.PlaceItemInRoom(caller, itemID, position, rotation, scale); err != nil {
		n.abort()
		return err
	}
	n.commit(rooms.ContractName, "place-item", caller, placeArgs{ItemID: itemID, Position: position, Rotation: rotation, Scale: scale})
	return nil
}

func (n *Node) RemoveItemFromRoom(caller chain.Principal, itemID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Rooms.RemoveItemFromRoom(caller, itemID); err != nil {
		n.abort()
		return err
	}
	n.commit(rooms.ContractName, "remove-item", caller, itemIDArgs{ItemID: itemID})
	return nil
}

func (n *Node) ChangeRoomTheme(caller chain.Principal, theme, backgroundMusic string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Rooms.ChangeRoomTheme(caller, theme, backgroundMusic); err != nil {
		n.abort()
		return err
	}
	n.commit(rooms.ContractName, "change-room-theme", caller, themeArgs{Theme: theme, BackgroundMusic: backgroundMusic})
	return nil
}

// Leaderboard operations.

func (n *Node) UpdateUserStats(caller, user chain.Principal, tasksCompleted, rewardsEarned, currentStreak, longestStreak, badgesCount, level uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	score, err := n.Board.UpdateUserStats(caller, user, tasksCompleted, rewardsEarned, currentStreak, longestStreak, badgesCount, level)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(board.ContractName, "update-user-stats", caller, statsArgs{
		User:           user.String(),
		TasksCompleted: tasksCompleted,
		RewardsEarned:  rewardsEarned,
		CurrentStreak:  currentStreak,
		LongestStreak:  longestStreak,
		BadgesCount:    badgesCount,
		Level:          level,
	})
	return score, nil
}

func (n *Node) SetUserProfile(caller chain.Principal, displayName string, isPublic, showInLeaderboard bool, favoriteCategory, bio string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.Board.SetUserProfile(caller, displayName, isPublic, showInLeaderboard, favoriteCategory, bio)
	if err != nil {
		n.abort()
		return err
	}
	n.commit(board.ContractName, "set-user-profile", caller, profileArgs{
		DisplayName:       displayName,
		IsPublic:          isPublic,
		ShowInLeaderboard: showInLeaderboard,
		FavoriteCategory:  favoriteCategory,
		Bio:               bio,
	})
	return nil
}

// RecomputeBoardEntry rolls a user's current numbers out of the tracker,
// streak system, badge registry and token ledger into a leaderboard entry.
// The deployer acts as the aggregator.
func (n *Node) RecomputeBoardEntry(user chain.Principal) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var tasksDone, rewards, level uint64
	if p, ok := n.Tasks.UserProfile(user); ok {
		tasksDone = p.TotalTasksCompleted
		rewards = p.TotalRewardsEarned
		level = p.Level
	}
	var current, longest uint64
	if st, ok := n.Streaks.UserStreak(user); ok {
		current = st.CurrentStreak
		longest = st.LongestStreak
	}
	badgeCount := n.Badges.BadgeCount(user)
	score, err := n.Board.UpdateUserStats(n.deployer, user, tasksDone, rewards, current, longest, badgeCount, level)
	if err != nil {
		n.abort()
		return 0, err
	}
	n.commit(board.ContractName, "update-user-stats", n.deployer, statsArgs{
		User:           user.String(),
		TasksCompleted: tasksDone,
		RewardsEarned:  rewards,
		CurrentStreak:  current,
		LongestStreak:  longest,
		BadgesCount:    badgeCount,
		Level:          level,
	})
	return score, nil
}
