// Package templates reads root-template XML into flat game object records.
package templates

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned for a Type attribute outside GameObjectType.
var ErrUnknownType = errors.New("unknown game object type")

// GameObjectType is the closed set of template object types.
type GameObjectType string

const (
	TypeCharacter          GameObjectType = "character"
	TypeItem               GameObjectType = "item"
	TypeScenery            GameObjectType = "scenery"
	TypePrefab             GameObjectType = "prefab"
	TypeTrigger            GameObjectType = "trigger"
	TypeSurface            GameObjectType = "surface"
	TypeProjectile         GameObjectType = "projectile"
	TypeDecal              GameObjectType = "decal"
	TypeTileConstruction   GameObjectType = "TileConstruction"
	TypeLight              GameObjectType = "light"
	TypeLevelTemplate      GameObjectType = "LevelTemplate"
	TypeSplineConstruction GameObjectType = "SplineConstruction"
	TypeLightProbe         GameObjectType = "lightProbe"
	TypeSpline             GameObjectType = "Spline"
	TypeTerrain            GameObjectType = "terrain"
)

var knownTypes = map[GameObjectType]struct{}{
	TypeCharacter:          {},
	TypeItem:               {},
	TypeScenery:            {},
	TypePrefab:             {},
	TypeTrigger:            {},
	TypeSurface:            {},
	TypeProjectile:         {},
	TypeDecal:              {},
	TypeTileConstruction:   {},
	TypeLight:              {},
	TypeLevelTemplate:      {},
	TypeSplineConstruction: {},
	TypeLightProbe:         {},
	TypeSpline:             {},
	TypeTerrain:            {},
}

// ParseGameObjectType matches s exactly against the known types.
func ParseGameObjectType(s string) (GameObjectType, error) {
	t := GameObjectType(s)
	if _, ok := knownTypes[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

func (t GameObjectType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Record is one GameObjects node. Empty strings mean the attribute was
// absent.
type Record struct {
	MapKey                    string
	ParentTemplateID          string
	PakOrigin                 string
	Type                      GameObjectType
	Name                      string
	DisplayNameHandle         string
	DisplayName               string
	DescriptionHandle         string
	Description               string
	Icon                      string
	StatsRef                  string
	CharacterVisualResourceID string
	VisualTemplate            string
}
