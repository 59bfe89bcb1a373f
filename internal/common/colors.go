package common

// PlayerColors maps player IDs to the hex colours observers draw them with.
var PlayerColors = map[int]string{
	-1: "#787878", // Neutral - gray
	0:  "#4f9fbf",
	1:  "#df7f7f",
	2:  "#00bf00",
	3:  "#9f7fff",
}

// PlayerColor returns the colour for a player, cycling for large IDs.
func PlayerColor(playerID int) string {
	if playerID < 0 {
		return PlayerColors[-1]
	}
	return PlayerColors[playerID%4]
}
