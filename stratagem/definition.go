// Package stratagem describes stratagem definitions and the name-keyed
// library they are loaded into.
package stratagem

import (
	"fmt"
	"strings"
	"time"
)

// Direction is one input of a stratagem code.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"Up", "Down", "Left", "Right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Arrow renders the direction as a single glyph, used by the codes listing.
func (d Direction) Arrow() string {
	switch d {
	case Up:
		return "↑"
	case Down:
		return "↓"
	case Left:
		return "←"
	case Right:
		return "→"
	}
	return "?"
}

// ParseDirection parses a direction name case-insensitively.
func ParseDirection(s string) (Direction, error) {
	for i, n := range directionNames {
		if strings.EqualFold(n, s) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Category groups stratagems the way the in-game menu does.
type Category uint8

const (
	Offensive Category = iota
	Supply
	Defensive
)

var categoryNames = [...]string{"Offensive", "Supply", "Defensive"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Rank orders categories for loadout assignment, starting at 1.
func (c Category) Rank() int { return int(c) + 1 }

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Deployment is how a stratagem arrives on the field.
type Deployment uint8

const (
	Orbital Deployment = iota
	Airstrike
	Weapon
	Backpack
	Ground
)

var deploymentNames = [...]string{"Orbital", "Airstrike", "Weapon", "Backpack", "Ground"}

func (d Deployment) String() string {
	if int(d) < len(deploymentNames) {
		return deploymentNames[d]
	}
	return fmt.Sprintf("Deployment(%d)", d)
}

// Rank orders deployment kinds for loadout assignment, starting at 1.
func (d Deployment) Rank() int { return int(d) + 1 }

// ParseDeployment parses a deployment kind case-insensitively.
func ParseDeployment(s string) (Deployment, error) {
	for i, n := range deploymentNames {
		if strings.EqualFold(n, s) {
			return Deployment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown deployment %q", s)
}

// Definition is an immutable stratagem description.
type Definition struct {
	Name       string
	Code       []Direction
	Category   Category
	Deployment Deployment
	// Position is the declared display position, used as a stable tie-break.
	Position   int
	DeployTime time.Duration
	Cooldown   time.Duration
}

// CodeString renders the code as arrows.
func (d *Definition) CodeString() string {
	var sb strings.Builder
	for i, dir := range d.Code {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(dir.Arrow())
	}
	return sb.String()
}
