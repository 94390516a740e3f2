package stats

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned for a "type" directive naming no known entity kind.
var ErrUnknownKind = errors.New("unknown entity kind")

// EntityKind is the closed set of stat record types.
type EntityKind uint8

const (
	KindCharacter EntityKind = iota + 1
	KindObject
	KindWeapon
	KindPassiveData
	KindSpellData
	KindStatusData
	KindCriticalHitType
	KindInterrupt
)

var kindNames = [...]string{
	KindCharacter:       "Character",
	KindObject:          "Object",
	KindWeapon:          "Weapon",
	KindPassiveData:     "PassiveData",
	KindSpellData:       "SpellData",
	KindStatusData:      "StatusData",
	KindCriticalHitType: "CriticalHitType",
	KindInterrupt:       "Interrupt",
}

// Kinds lists every entity kind in declaration order.
func Kinds() []EntityKind {
	out := make([]EntityKind, 0, len(kindNames)-1)
	for k := KindCharacter; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

func (k EntityKind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("EntityKind(%d)", k)
	}
	return kindNames[k]
}

// ParseEntityKind matches name exactly (case-sensitive).
func ParseEntityKind(name string) (EntityKind, error) {
	for k := KindCharacter; int(k) < len(kindNames); k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k EntityKind) MarshalText() ([]byte, error) {
	if k == 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(kindNames[k]), nil
}

func (k *EntityKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEntityKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
