package roll

import (
	"errors"
	"time"
)

// TTL is how long a roll stays visible on spectator screens before it is
// considered gone, even if the game master never clears it.
const TTL = 60 * time.Second

type Status string

const (
	StatusRolling Status = "rolling"
	StatusResult  Status = "result"
)

type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeAdvantage    Mode = "advantage"
	ModeDisadvantage Mode = "disadvantage"
)

var (
	ErrInvalidStatus     = errors.New("invalid roll status")
	ErrInvalidMode       = errors.New("invalid roll mode")
	ErrDifficultyClass   = errors.New("difficulty class must be between 1 and 30")
	ErrInvalidScreenMode = errors.New("invalid player screen mode")
)

// Record is one dice roll as the game master shows it to spectators.
// Field names match what the DM client posts.
type Record struct {
	ID              string `json:"id,omitempty"`
	Status          Status `json:"status"`
	Mode            Mode   `json:"mode,omitempty"`
	PlayerName      string `json:"playerName,omitempty"`
	Label           string `json:"label,omitempty"`
	Dice            []int  `json:"dice,omitempty"` // pair of raw d20s for advantage/disadvantage
	Value           *int   `json:"value,omitempty"`
	ChosenValue     *int   `json:"chosenValue,omitempty"`
	Modifier        int    `json:"modifier"`
	Total           *int   `json:"total,omitempty"`
	IsNat1          bool   `json:"isNat1"`
	IsNat20         bool   `json:"isNat20"`
	DifficultyClass *int   `json:"difficultyClass,omitempty"`
}

func (r *Record) Validate() error {
	switch r.Status {
	case StatusRolling, StatusResult:
	default:
		return ErrInvalidStatus
	}
	switch r.Mode {
	case "", ModeNormal, ModeAdvantage, ModeDisadvantage:
	default:
		return ErrInvalidMode
	}
	if dc := r.DifficultyClass; dc != nil && (*dc < 1 || *dc > 30) {
		return ErrDifficultyClass
	}
	return nil
}

// Expired reports whether a roll stamped at the given time should be treated
// as absent. Pure function of the two times so read paths cannot disagree.
func Expired(now, stamped time.Time) bool {
	return now.Sub(stamped) >= TTL
}

// ScreenMode is what the player screen should currently render.
type ScreenMode string

const (
	ScreenDice    ScreenMode = "dice"
	ScreenBrowser ScreenMode = "browser"
	ScreenMap     ScreenMode = "map"
)

func ParseScreenMode(s string) (ScreenMode, error) {
	switch ScreenMode(s) {
	case ScreenDice, ScreenBrowser, ScreenMap:
		return ScreenMode(s), nil
	default:
		return "", ErrInvalidScreenMode
	}
}
