package ecs

const RuleDoBlockDrops = "doBlockDrops"

// GameRules holds boolean world rules.
type GameRules struct {
	bools map[string]bool
}

func NewGameRules() *GameRules {
	return &GameRules{bools: map[string]bool{
		RuleDoBlockDrops: true,
	}}
}

// Bool returns the rule value; unknown rules are false.
func (g *GameRules) Bool(name string) bool {
	if g == nil {
		return false
	}
	return g.bools[name]
}

func (g *GameRules) SetBool(name string, v bool) {
	if g == nil {
		return
	}
	g.bools[name] = v
}
