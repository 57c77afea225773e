package combat

// Ability names. Handlers are registered under these; abilities without a
// handler entry are markers consumed directly by the resolution code.
const (
	AbilityDuelingStance    = "Dueling Stance"
	AbilityLineageWeapon    = "Lineage Weapon"
	AbilityQuestingBane     = "Questing Bane"
	AbilityPreciseSenses    = "Precise Senses"
	AbilityAberrationSlayer = "Aberration Slayer"
	AbilityBacklineFlanker  = "Backline Flanker"
	AbilityStrategicArcher  = "Strategic Archer"
	AbilityControl          = "Control"
	AbilityRakishCombo      = "Rakish Combination"
	AbilityForwardCharge    = "Forward Charge"
	AbilityParry            = "Parry"
	AbilityEvasiveTactics   = "Evasive Tactics"
	AbilityQuickfooted      = "Quickfooted"
	AbilityGalestormStance  = "Galestorm Stance"
	AbilityReactiveStance   = "Reactive Stance"
	AbilityDeathsDance      = "Death's Dance"
	AbilityShieldmaster     = "Shieldmaster"
	AbilityShieldWall       = "Shield Wall"
	AbilityFirstStrike      = "First Strike"
	AbilityAlwaysReady      = "Always Ready"
	AbilitySkirmishingParty = "Skirmishing Party"

	// Marker abilities checked by the resolution code rather than through
	// the registry.
	AbilityBastion        = "Bastion"
	AbilitySteadfast      = "Steadfast"
	AbilityRiposte        = "Riposte"
	AbilitySentinel       = "Sentinel"
	AbilityPatientFlow    = "Patient Flow"
	AbilityWhirlingDevil  = "Whirling Devil"
	AbilityShieldBash     = "Shield Bash"
	AbilityTrickShot      = "Trick Shot"
	AbilitySecondWind     = "Second Wind"
	AbilityMightyStrike   = "Mighty Strike"
	AbilityDualStrike     = "Dual Strike"
	AbilityQuickdraw      = "Quickdraw"
	AbilityGrazingBlows   = "Grazing Blows"
	AbilityOvercast       = "Overcast"
	AbilityShieldMockery  = "Mockery"
	AbilityVault          = "Vault"
	AbilityAlwaysPrepared = "Always Prepared"
)
