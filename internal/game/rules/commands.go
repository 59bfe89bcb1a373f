package rules

// Command names a player-issued unit order.
type Command string

const (
	CommandRest    Command = "rest"
	CommandGuard   Command = "guard"
	CommandCamp    Command = "camp"
	CommandAction  Command = "action"
	CommandPillage Command = "pillage"
	CommandDisarm  Command = "disarm"
)

// AllCommands lists unit commands in menu order.
var AllCommands = []Command{CommandRest, CommandGuard, CommandCamp, CommandAction, CommandPillage, CommandDisarm}

// UnitCondition is what command availability depends on.
type UnitCondition struct {
	Movable     bool
	AtCamp      bool
	BattleUnits int
	// OnOwnCity is true when the unit stands on a city of its own player.
	OnOwnCity bool
}

// AvailableCommands returns the commands a unit may be given this turn.
// Nothing is available once move points are spent. Resting needs the
// unit at camp; fighting orders need battle units; disarming needs a city.
func AvailableCommands(c UnitCondition) []Command {
	if !c.Movable {
		return nil
	}
	var cmds []Command
	for _, cmd := range AllCommands {
		switch cmd {
		case CommandRest:
			if !c.AtCamp {
				continue
			}
		case CommandAction, CommandPillage:
			if c.BattleUnits <= 0 {
				continue
			}
		case CommandDisarm:
			if !c.OnOwnCity {
				continue
			}
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// CommandMask reports availability as a fixed-order mask over AllCommands.
func CommandMask(c UnitCondition) []bool {
	mask := make([]bool, len(AllCommands))
	available := AvailableCommands(c)
	for i, cmd := range AllCommands {
		for _, a := range available {
			if a == cmd {
				mask[i] = true
			}
		}
	}
	return mask
}
