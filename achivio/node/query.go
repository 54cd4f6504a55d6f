package node

import (
	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/badges"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
)

// TokenInfo is the static token metadata plus live supply numbers.
type TokenInfo struct {
	Name               string `json:"name"`
	Symbol             string `json:"symbol"`
	Decimals           uint   `json:"decimals"`
	TokenURI           string `json:"token_uri"`
	TotalSupply        uint64 `json:"total_supply"`
	RewardsDistributed uint64 `json:"rewards_distributed"`
	Paused             bool   `json:"paused"`
}

func (n *Node) TokenInfo() TokenInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return TokenInfo{
		Name:               n.Token.Name(),
		Symbol:             n.Token.Symbol(),
		Decimals:           n.Token.TokenDecimals(),
		TokenURI:           n.Token.TokenURI(),
		TotalSupply:        n.Token.TotalSupply(),
		RewardsDistributed: n.Token.TotalRewardsDistributed(),
		Paused:             n.Token.IsPaused(),
	}
}

func (n *Node) Balance(p chain.Principal) uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Token.Balance(p)
}

func (n *Node) Task(taskID uint64) (tasks.Task, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.Task(taskID)
}

func (n *Node) TaskList() []tasks.Task {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.Tasks()
}

func (n *Node) UserTaskProfile(user chain.Principal) (tasks.Profile, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.UserProfile(user)
}

func (n *Node) TrackerStats() tasks.TotalStats {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.Stats()
}

func (n *Node) IsTaskCompletedToday(user chain.Principal, taskID uint64) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.IsTaskCompletedToday(user, taskID)
}

func (n *Node) UserDailyStats(user chain.Principal, date uint64) tasks.DailyStats {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Tasks.UserDailyStats(user, date)
}

func (n *Node) UserStreak(user chain.Principal) (streaks.Streak, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Streaks.UserStreak(user)
}

func (n *Node) IsBonusClaimed(user chain.Principal, date uint64) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Streaks.IsBonusClaimed(user, date)
}

func (n *Node) NextMilestone(user chain.Principal) uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Streaks.NextMilestone(user)
}

func (n *Node) Badge(tokenID uint64) (badges.Badge, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Badges.Badge(tokenID)
}

func (n *Node) BadgesOf(user chain.Principal) []badges.Badge {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Badges.BadgesOf(user)
}

func (n *Node) Templates() []rooms.Template {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Rooms.Templates()
}

func (n *Node) ItemPlacement(user chain.Principal, itemID uint64) (rooms.Item, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Rooms.ItemPlacement(user, itemID)
}

func (n *Node) ItemsOf(user chain.Principal) []rooms.Item {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Rooms.ItemsOf(user)
}

func (n *Node) UserRoom(user chain.Principal) (rooms.Room, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Rooms.UserRoom(user)
}

func (n *Node) UserRank(user chain.Principal, boardType, timeframe uint64) (uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Board.UserRank(user, boardType, timeframe)
}

func (n *Node) TopEntries(boardType, timeframe uint64, limit int) []board.Entry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Board.Top(boardType, timeframe, limit)
}

func (n *Node) CompareUsers(a, b chain.Principal) (board.Comparison, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Board.CompareUsers(a, b)
}

func (n *Node) UserAchievements(user chain.Principal) (board.Achievements, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Board.UserAchievements(user)
}

func (n *Node) BoardProfile(user chain.Principal) (board.Profile, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Board.UserProfile(user)
}
