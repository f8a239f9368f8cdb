package client

import (
	"fmt"
	"image/color"
	"strings"
)

// CharacterType 玩家外观
type CharacterType int

const (
	CharacterWhite CharacterType = iota
	CharacterBlack
	CharacterRed
	CharacterBlue
)

func (c CharacterType) String() string {
	switch c {
	case CharacterWhite:
		return "white"
	case CharacterBlack:
		return "black"
	case CharacterRed:
		return "red"
	case CharacterBlue:
		return "blue"
	}
	return "unknown"
}

// ParseCharacter 按名字取外观
func ParseCharacter(name string) (CharacterType, error) {
	for _, c := range []CharacterType{CharacterWhite, CharacterBlack, CharacterRed, CharacterBlue} {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}
	return CharacterWhite, fmt.Errorf("unknown character %q", name)
}

// CharacterInfo 角色配色
type CharacterInfo struct {
	Type         CharacterType
	Name         string
	BodyColor    color.RGBA
	OutlineColor color.RGBA
	HandColor    color.RGBA
	ShoeColor    color.RGBA
}

// GetCharacterInfo 获取角色配色
func GetCharacterInfo(charType CharacterType) CharacterInfo {
	switch charType {
	case CharacterBlack:
		return CharacterInfo{
			Type:         CharacterBlack,
			Name:         "暗夜黑",
			BodyColor:    color.RGBA{40, 40, 40, 255},
			OutlineColor: color.RGBA{200, 200, 200, 255},
			HandColor:    color.RGBA{80, 80, 120, 255},
			ShoeColor:    color.RGBA{180, 180, 180, 255},
		}
	case CharacterRed:
		return CharacterInfo{
			Type:         CharacterRed,
			Name:         "烈焰红",
			BodyColor:    color.RGBA{255, 80, 80, 255},
			OutlineColor: color.RGBA{150, 0, 0, 255},
			HandColor:    color.RGBA{255, 200, 100, 255},
			ShoeColor:    color.RGBA{100, 0, 0, 255},
		}
	case CharacterBlue:
		return CharacterInfo{
			Type:         CharacterBlue,
			Name:         "冰霜蓝",
			BodyColor:    color.RGBA{100, 180, 255, 255},
			OutlineColor: color.RGBA{0, 50, 150, 255},
			HandColor:    color.RGBA{150, 220, 255, 255},
			ShoeColor:    color.RGBA{0, 30, 100, 255},
		}
	default:
		return CharacterInfo{
			Type:         CharacterWhite,
			Name:         "经典白",
			BodyColor:    color.RGBA{255, 255, 255, 255},
			OutlineColor: color.RGBA{0, 0, 0, 255},
			HandColor:    color.RGBA{255, 150, 150, 255},
			ShoeColor:    color.RGBA{50, 50, 50, 255},
		}
	}
}
