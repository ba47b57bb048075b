package game

import "fmt"

// Info is the status line of the active record.
type Info struct {
	MoveNumber     int    `json:"move_number"`
	PlayerBlack    string `json:"player_black"`
	PlayerWhite    string `json:"player_white"`
	BlackPrisoners int    `json:"black_prisoners"`
	WhitePrisoners int    `json:"white_prisoners"`
}

func (i Info) String() string {
	return fmt.Sprintf("move %d    black: %s prisoners %d    white: %s prisoners %d",
		i.MoveNumber, i.PlayerBlack, i.BlackPrisoners, i.PlayerWhite, i.WhitePrisoners)
}
