package stats

import "sort"

// FieldSpec declares how one field of one entity kind decodes.
type FieldSpec struct {
	Type ValueType
	Enum *Enum
}

func scalar(t ValueType) FieldSpec { return FieldSpec{Type: t} }
func enum(e *Enum) FieldSpec       { return FieldSpec{Type: TypeEnum, Enum: e} }
func enumList(e *Enum) FieldSpec   { return FieldSpec{Type: TypeEnumList, Enum: e} }
func fields(specs ...map[string]FieldSpec) map[string]FieldSpec {
	out := make(map[string]FieldSpec)
	for _, m := range specs {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

var (
	fixed      = scalar(TypeFixedString)
	lsString   = scalar(TypeLSString)
	translated = scalar(TypeTranslatedString)
	stringList = scalar(TypeStringList)
	i8         = scalar(TypeInt8)
	i16        = scalar(TypeInt16)
	i32        = scalar(TypeInt32)
	i64        = scalar(TypeInt64)
	u8         = scalar(TypeUInt8)
	u16        = scalar(TypeUInt16)
	u32        = scalar(TypeUInt32)
	u64        = scalar(TypeUInt64)
	f32        = scalar(TypeFloat32)
	f64        = scalar(TypeFloat64)
	boolean    = scalar(TypeBool)
	guid       = scalar(TypeGuid)
)

// itemFields are shared by Object and Weapon entries.
var itemFields = map[string]FieldSpec{
	"RootTemplate":        guid,
	"ValueUUID":           guid,
	"ValueLevel":          i32,
	"ValueOverride":       i32,
	"ValueScale":          f64,
	"Weight":              f32,
	"Rarity":              enum(enumRarity),
	"Unique":              i8,
	"Slot":                enum(enumItemSlot),
	"InventoryTab":        enum(enumInventoryTab),
	"Boosts":              fixed,
	"DefaultBoosts":       fixed,
	"PassivesOnEquip":     stringList,
	"StatusOnEquip":       stringList,
	"UseConditions":       fixed,
	"ComboCategory":       stringList,
	"ItemGroup":           fixed,
	"NeedsIdentification": boolean,
	"LegacyId":            u64,
	"MaxAmount":           u16,
	"MinAmount":           u16,
}

var schema = map[EntityKind]map[string]FieldSpec{
	KindCharacter: {
		"Level":                i32,
		"Experience":           i64,
		"DifficultyLevel":      u8,
		"Strength":             i32,
		"Dexterity":            i32,
		"Constitution":         i32,
		"Intelligence":         i32,
		"Wisdom":               i32,
		"Charisma":             i32,
		"Vitality":             i32,
		"Armor":                i32,
		"ArmorType":            enum(enumArmorType),
		"Initiative":           i32,
		"ProficiencyBonus":     i32,
		"Proficiency Group":    enumList(enumProficiencyGroup),
		"Passives":             stringList,
		"DifficultyStatuses":   stringList,
		"DefaultBoosts":        fixed,
		"ActionResources":      fixed,
		"XPReward":             fixed,
		"Weight":               f64,
		"Sight":                f32,
		"Hearing":              f32,
		"FOV":                  f32,
		"CameraOffset":         scalar(TypeVec3),
		"FOVAngles":            scalar(TypeVec2),
		"SpellCastingAbility":  enum(enumAbility),
		"UnarmedAttackAbility": enum(enumAbility),
		"IsPlayer":             boolean,
	},
	KindObject: fields(itemFields, map[string]FieldSpec{
		"ObjectCategory": stringList,
		"Vitality":       i32,
		"Armor":          i32,
		"Priority":       i32,
		"Tint":           scalar(TypeVec4),
		"Transform":      scalar(TypeMat4x4),
		"Tooltip":        lsString,
	}),
	KindWeapon: fields(itemFields, map[string]FieldSpec{
		"Damage":                fixed,
		"VersatileDamage":       fixed,
		"Damage Type":           enum(enumDamageType),
		"WeaponType":            enum(enumWeaponType),
		"Weapon Group":          enum(enumWeaponGroup),
		"Weapon Properties":     enumList(enumWeaponFlags),
		"Proficiency Group":     enumList(enumProficiencyGroup),
		"WeaponRange":           i32,
		"DamageRange":           i32,
		"Durability":            u32,
		"Charges":               u8,
		"BoostsOnEquipMainHand": fixed,
		"BoostsOnEquipOffHand":  fixed,
		"Projectile":            fixed,
	}),
	KindPassiveData: {
		"DisplayName":         translated,
		"Description":         translated,
		"LoreDescription":     translated,
		"DescriptionParams":   fixed,
		"Icon":                fixed,
		"Properties":          enumList(enumPassiveFlags),
		"Boosts":              fixed,
		"BoostContext":        enumList(enumFunctorContext),
		"BoostConditions":     fixed,
		"StatsFunctorContext": enumList(enumFunctorContext),
		"StatsFunctors":       fixed,
		"Conditions":          fixed,
		"ToggleOnFunctors":    fixed,
		"ToggleOffFunctors":   fixed,
		"ToggleGroup":         fixed,
		"EnabledConditions":   fixed,
		"TooltipUseCosts":     fixed,
		"Priority":            i32,
	},
	KindSpellData: {
		"SpellType":             enum(enumSpellType),
		"Level":                 i32,
		"SpellSchool":           enum(enumSpellSchool),
		"DisplayName":           translated,
		"Description":           translated,
		"DescriptionParams":     fixed,
		"Icon":                  fixed,
		"TargetRadius":          fixed,
		"AreaRadius":            f32,
		"TargetConditions":      fixed,
		"RequirementConditions": fixed,
		"SpellRoll":             fixed,
		"SpellSuccess":          fixed,
		"SpellFail":             fixed,
		"SpellProperties":       fixed,
		"SpellFlags":            enumList(enumSpellFlags),
		"UseCosts":              fixed,
		"Cooldown":              enum(enumCooldown),
		"SpellAnimation":        fixed,
		"VerbalIntent":          enum(enumVerbalIntent),
		"MemoryCost":            i32,
		"ContainerSpells":       stringList,
		"CastTextEvent":         fixed,
		"TooltipDamageList":     fixed,
		"CastSound":             fixed,
		"Sheathing":             enum(enumSheathing),
		"ProjectileCount":       i32,
		"WeaponTypes":           enumList(enumWeaponFlags),
		"Trajectories":          stringList,
		"DamageType":            enum(enumDamageType),
		"HitAnimationType":      enum(enumHitAnimation),
		"PrepareEffect":         fixed,
		"CastEffect":            fixed,
	},
	KindStatusData: {
		"StatusType":          enum(enumStatusType),
		"DisplayName":         translated,
		"Description":         translated,
		"DescriptionParams":   fixed,
		"Icon":                fixed,
		"StackId":             fixed,
		"StackPriority":       i16,
		"StackType":           enum(enumStackType),
		"Boosts":              fixed,
		"Passives":            stringList,
		"StatusPropertyFlags": enumList(enumStatusFlags),
		"StatusGroups":        stringList,
		"OnApplyFunctors":     fixed,
		"OnRemoveFunctors":    fixed,
		"OnTickFunctors":      fixed,
		"TickType":            enum(enumTickType),
		"RemoveEvents":        enumList(enumRemoveEvents),
		"RemoveConditions":    fixed,
		"StatusEffect":        fixed,
		"ApplyEffect":         fixed,
		"AnimationStart":      fixed,
		"SoundStart":          fixed,
		"TooltipSave":         enum(enumAbility),
		"Necromantic":         boolean,
		"HealMultiplier":      f32,
	},
	KindCriticalHitType: {
		"Hit":           fixed,
		"CriticalHit":   fixed,
		"Miss":          fixed,
		"Graze":         fixed,
		"ColorOverride": scalar(TypeVec4),
	},
	KindInterrupt: {
		"DisplayName":           translated,
		"Description":           translated,
		"DescriptionParams":     fixed,
		"Icon":                  fixed,
		"InterruptContext":      enum(enumInterruptContext),
		"InterruptContextScope": enum(enumInterruptScope),
		"InterruptDefaultValue": enumList(enumInterruptDefault),
		"Container":             fixed,
		"Conditions":            fixed,
		"EnableCondition":       fixed,
		"Roll":                  fixed,
		"Success":               fixed,
		"Failure":               fixed,
		"Properties":            fixed,
		"Cost":                  fixed,
		"Stack":                 fixed,
		"Cooldown":              enum(enumCooldown),
	},
}

// LookupField returns the declared decoding for key on kind.
func LookupField(kind EntityKind, key string) (FieldSpec, bool) {
	spec, ok := schema[kind][key]
	return spec, ok
}

// FieldNames lists the declared fields of kind, sorted.
func FieldNames(kind EntityKind) []string {
	names := make([]string, 0, len(schema[kind]))
	for name := range schema[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
