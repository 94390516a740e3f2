package stats

// Enum is a named closed set of member names. Matching is case-sensitive.
type Enum struct {
	Name    string
	Members []string

	index map[string]struct{}
}

func newEnum(name string, members ...string) *Enum {
	index := make(map[string]struct{}, len(members))
	for _, m := range members {
		index[m] = struct{}{}
	}
	return &Enum{Name: name, Members: members, index: index}
}

func (e *Enum) Has(member string) bool {
	_, ok := e.index[member]
	return ok
}

var (
	enumAbility = newEnum("AbilityType",
		"None", "Strength", "Dexterity", "Constitution", "Intelligence", "Wisdom", "Charisma")

	enumDamageType = newEnum("DamageType",
		"None", "Slashing", "Piercing", "Bludgeoning", "Acid", "Thunder", "Necrotic",
		"Fire", "Lightning", "Cold", "Psychic", "Poison", "Radiant", "Force")

	enumWeaponType = newEnum("WeaponType",
		"None", "Sword", "Club", "Axe", "Staff", "Bow", "Crossbow", "Spear", "Knife",
		"Sickle", "Hammer", "Mace", "Flail", "Glaive", "Halberd", "Javelin", "Pike",
		"Rapier", "Scimitar", "Shortsword", "Longsword", "Greatsword", "Greataxe",
		"Greatclub", "Handaxe", "Warhammer", "Maul", "Morningstar", "Trident", "Whip",
		"Dart", "Sling", "Quarterstaff", "Battleaxe", "LightHammer", "Wand", "Rod")

	enumWeaponGroup = newEnum("WeaponGroup",
		"SimpleMeleeWeapon", "MartialMeleeWeapon", "SimpleRangedWeapon", "MartialRangedWeapon")

	enumWeaponFlags = newEnum("WeaponFlags",
		"Light", "Ammunition", "Finesse", "Heavy", "Loading", "Range", "Reach", "Lance",
		"Net", "Thrown", "Twohanded", "Versatile", "Melee", "Dippable", "Torch",
		"NoDualWield", "Magical", "NeedDualWieldingBoost", "NotSheathable", "Unstowable",
		"AddToHotbar")

	enumItemSlot = newEnum("ItemSlot",
		"Helmet", "Breast", "Cloak", "Melee Main Weapon", "Melee Offhand Weapon",
		"Ranged Main Weapon", "Ranged Offhand Weapon", "Ring", "Underwear", "Boots",
		"Gloves", "Amulet", "Ring2", "Wings", "Horns", "Overhead", "MusicalInstrument",
		"VanityBody", "VanityBoots")

	enumRarity = newEnum("Rarity",
		"Common", "Uncommon", "Rare", "VeryRare", "Legendary", "Unique")

	enumInventoryTab = newEnum("InventoryTab",
		"Auto", "Equipment", "Magical", "Consumable", "Keys", "Misc", "Hidden")

	enumArmorType = newEnum("ArmorType",
		"None", "Cloth", "Padded", "Leather", "StuddedLeather", "Hide", "ChainShirt",
		"ScaleMail", "BreastPlate", "HalfPlate", "RingMail", "ChainMail", "Splint", "Plate")

	enumProficiencyGroup = newEnum("ProficiencyGroupFlags",
		"LightArmor", "MediumArmor", "HeavyArmor", "Shields", "SimpleWeapons",
		"MartialWeapons", "HandCrossbows", "Battleaxes", "Flails", "Glaives",
		"Greataxes", "Greatswords", "Halberds", "Longswords", "Mauls", "Morningstars",
		"Pikes", "Rapiers", "Scimitars", "Shortswords", "Tridents", "WarPicks",
		"Warhammers", "Clubs", "Daggers", "Greatclubs", "Handaxes", "Javelins",
		"LightHammers", "Maces", "Quarterstaffs", "Sickles", "Spears", "LightCrossbows",
		"Darts", "Shortbows", "Slings", "HeavyCrossbows", "Longbows", "MusicalInstrument")

	enumSpellType = newEnum("SpellType",
		"Zone", "MultiStrike", "Projectile", "ProjectileStrike", "Rush", "Shout",
		"Storm", "Target", "Teleportation", "Wall", "Throw", "Cone")

	enumSpellSchool = newEnum("SpellSchool",
		"None", "Abjuration", "Conjuration", "Divination", "Enchantment", "Evocation",
		"Illusion", "Necromancy", "Transmutation")

	enumSpellFlags = newEnum("SpellFlagList",
		"HasVerbalComponent", "HasSomaticComponent", "IsSpell", "IsAttack", "IsMelee",
		"IsHarmful", "IsConcentration", "IsLinkedSpellContainer", "Temporary",
		"RangeIgnoreVerticalThreshold", "CannotTargetCharacter", "CannotTargetItems",
		"CannotTargetTerrain", "IgnoreSilence", "Stealth", "AddFallDamageOnLand",
		"Invisible", "IsEnemySpell", "IsDefaultWeaponAction", "IsJump", "IsTrap",
		"IsSwarmAttack", "Wildshape", "UnavailableInDialogs")

	enumCooldown = newEnum("CooldownType",
		"None", "OncePerTurn", "OncePerCombat", "UntilRest", "OncePerTurnNoRealtime",
		"UntilShortRest", "UntilPerRestPerItem", "OncePerShortRestPerItem")

	enumVerbalIntent = newEnum("VerbalIntent",
		"None", "Damage", "Healing", "Buff", "Debuff", "Control", "Movement", "Utility", "Summon")

	enumSheathing = newEnum("SpellSheathing",
		"Melee", "Ranged", "Sheathed", "Instrument", "DontChange", "WeaponSet", "Somatic")

	enumHitAnimation = newEnum("HitAnimationType",
		"None", "PhysicalDamage", "MagicalDamage_Internal", "MagicalDamage_External",
		"MagicalDamage_Electric", "MagicalDamage_Psychic", "MagicalNonDamage")

	enumStatusType = newEnum("StatusType",
		"BOOST", "INCAPACITATED", "POLYMORPHED", "INVISIBLE", "KNOCKED_DOWN", "SNEAKING",
		"DOWNED", "DEACTIVATED", "EFFECT", "FEAR", "HEAL", "SLEEPING", "REACTION", "DYING")

	enumStatusFlags = newEnum("StatusPropertyFlags",
		"DisableOverhead", "DisableCombatlog", "DisablePortraitIndicator", "IgnoreResting",
		"ApplyToDead", "InitiateCombat", "BringIntoCombat", "LoseControl", "ForceOverhead",
		"FreezeDuration", "IsInvulnerable", "TickingWithoutPlayer")

	enumStackType = newEnum("StatusStackType",
		"Stack", "Ignore", "Additive", "Overwrite")

	enumTickType = newEnum("TickType",
		"StartTurn", "EndTurn", "StartRound", "EndRound")

	enumRemoveEvents = newEnum("StatusEvent",
		"OnTurn", "OnMove", "OnSpellCast", "OnAttack", "OnAttacked", "OnDamage",
		"OnDamaged", "OnApply", "OnRemove", "OnLeaveAttackRange", "OnShortRest", "OnLongRest")

	enumPassiveFlags = newEnum("PassiveFlags",
		"IsHidden", "Highlighted", "IsToggled", "ToggledDefaultOn",
		"ToggledDefaultAddToHotbar", "OncePerTurn", "OncePerCombat", "OncePerShortRest",
		"OncePerLongRest", "ForceShowInCC", "MetaMagic")

	enumFunctorContext = newEnum("StatsFunctorContext",
		"OnAttack", "OnAttacked", "OnDamage", "OnDamaged", "OnCast", "OnCastResolved",
		"OnStatusApplied", "OnStatusRemoved", "OnTurn", "OnCombatStarted", "OnCombatEnded",
		"OnShortRest", "OnLongRest", "OnEquip", "OnCreate", "OnMovedDistance")

	enumInterruptContext = newEnum("InterruptContext",
		"OnSpellCast", "OnPostRoll", "OnPreDamage", "OnPostDamage", "OnCastHit",
		"OnLeaveAttackRange", "OnEnterAttackRange", "OnStatusApplied")

	enumInterruptScope = newEnum("InterruptContextScope",
		"Self", "Nearby")

	enumInterruptDefault = newEnum("InterruptDefaultValue",
		"Ask", "Enabled", "Disabled")
)
