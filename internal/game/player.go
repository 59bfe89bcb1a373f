package game

import "fmt"

// stateNames are the player names, used in turn order.
var stateNames = []string{"Qin", "Zhao", "Han", "Wei", "Chu", "Qi"}

// cityNames holds each player's list of city names in founding order.
var cityNames = [][]string{
	{"Xianyang", "Yong", "Yueyang", "Liyang", "Lantian", "Shangjun", "Hanzhong"},
	{"Handan", "Jinyang", "Dai", "Zhongmou", "Lin", "Wuan", "Bolang"},
	{"Xinzheng", "Yangzhai", "Yiyang", "Shangdang", "Pingyang", "Wan", "Ye"},
	{"Daliang", "Anyi", "Yecheng", "Wenan", "Puyang", "Shanyang", "Suanzao"},
	{"Ying", "Chen", "Shouchun", "Wu", "Yuan", "Shangcai", "Xiakou"},
	{"Linzi", "Ju", "Jimo", "Gaotang", "Pingyin", "Lu", "Xue"},
}

// Player is one side of the war. Diplomacy is symmetric and only moves
// from peace to war.
type Player struct {
	ID      int
	Name    string
	hostile map[int]bool
}

func newPlayer(id int) *Player {
	name := fmt.Sprintf("Player %d", id)
	if id < len(stateNames) {
		name = stateNames[id]
	}
	return &Player{ID: id, Name: name, hostile: make(map[int]bool)}
}

// IsEnemy reports whether the player is at war with other.
func (p *Player) IsEnemy(other int) bool { return p.hostile[other] }

// Enemies lists the players this one is at war with, in ID order.
func (p *Player) Enemies(players int) []int {
	var enemies []int
	for id := 0; id < players; id++ {
		if p.hostile[id] {
			enemies = append(enemies, id)
		}
	}
	return enemies
}

func (p *Player) setHostile(other int) { p.hostile[other] = true }

// cityNameCandidates returns the names this player founds cities under.
func (p *Player) cityNameCandidates() []string {
	if p.ID < len(cityNames) {
		return cityNames[p.ID]
	}
	return nil
}
